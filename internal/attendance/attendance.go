// Package attendance reconciles clock events into worked shifts. Clock
// events are accepted in any order at write time; pairing Enter with the
// following Exit only happens here.
package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotels-sync/internal/models"
)

const (
	NoteMissingEnter = "Missing enter time"
	NoteMissingExit  = "Missing exit time"
)

type Kind int

const (
	KindOther Kind = iota
	KindEnter
	KindExit
)

// Event is a clock event reduced to what pairing needs
type Event struct {
	ContractID  uint
	Date        datatypes.Date
	Time        datatypes.Time
	Kind        Kind
	Description string
	// description of the direction, used as note for other events
	DirectionDescription string
}

// Shift is an Enter paired with an Exit, or a single other event
type Shift struct {
	ContractID       uint
	Date             datatypes.Date
	Enter            *datatypes.Time
	EnterDescription string
	Exit             *datatypes.Time
	ExitDescription  string
	Other            *datatypes.Time
	Duration         time.Duration
	Notes            string
}

func (s *Shift) valid() bool {
	return s.Enter != nil || s.Exit != nil || s.Other != nil
}

// complete fills a missing side with the other one, so the shift lasts
// zero and carries a note.
func (s *Shift) complete() Shift {
	out := *s
	if out.Other != nil {
		return out
	}

	if out.Enter == nil {
		out.Enter = out.Exit
		out.Notes = NoteMissingEnter
	}
	if out.Exit == nil {
		out.Exit = out.Enter
		out.Notes = NoteMissingExit
	}
	out.Duration = time.Duration(*out.Exit) - time.Duration(*out.Enter)

	return out
}

func dayKey(d datatypes.Date) string {
	return models.FormatDate(d)
}

// Pair groups events by (date, contract) and pairs each Enter with the
// next Exit in time order. Consecutive Enters or Exits close the pending
// shift first. Other events become shifts of their own after the pairs of
// the same day.
func Pair(events []Event) []Shift {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if dayKey(a.Date) != dayKey(b.Date) {
			return dayKey(a.Date) < dayKey(b.Date)
		}
		if a.ContractID != b.ContractID {
			return a.ContractID < b.ContractID
		}
		return a.Time < b.Time
	})

	results := make([]Shift, 0)
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].ContractID == sorted[start].ContractID &&
			dayKey(sorted[end].Date) == dayKey(sorted[start].Date) {
			end++
		}
		results = append(results, pairDay(sorted[start:end])...)
		start = end
	}

	return results
}

func pairDay(events []Event) []Shift {
	results := make([]Shift, 0)
	first := events[0]
	newShift := func() *Shift {
		return &Shift{ContractID: first.ContractID, Date: first.Date}
	}

	cur := newShift()
	for i := range events {
		e := events[i]
		switch e.Kind {
		case KindEnter:
			if cur.Exit != nil || cur.Enter != nil {
				results = append(results, cur.complete())
				cur = newShift()
			}
			cur.Enter = &e.Time
			cur.EnterDescription = e.Description

		case KindExit:
			if cur.Exit != nil {
				results = append(results, cur.complete())
				cur = newShift()
			}
			cur.Exit = &e.Time
			cur.ExitDescription = e.Description
		}
	}
	if cur.valid() {
		results = append(results, cur.complete())
	}

	for i := range events {
		e := events[i]
		if e.Kind != KindOther {
			continue
		}
		other := newShift()
		other.Other = &e.Time
		other.Notes = e.DirectionDescription
		results = append(results, *other)
	}

	return results
}

// Load reads the clock events dated between from and to (inclusive)
func Load(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Event, error) {
	timestamps := make([]models.Timestamp, 0)
	ret := db.WithContext(ctx).Preload("Direction").
		Where("date >= ? AND date <= ?", models.DateOf(from), models.DateOf(to)).
		Order("date, contract_id, time").
		Find(&timestamps)
	if ret.Error != nil {
		return nil, ret.Error
	}

	events := make([]Event, 0, len(timestamps))
	for _, ts := range timestamps {
		e := Event{
			ContractID:  ts.ContractID,
			Date:        ts.Date,
			Time:        ts.Time,
			Description: ts.Description,
		}
		if ts.Direction != nil {
			switch {
			case ts.Direction.TypeEnter:
				e.Kind = KindEnter
			case ts.Direction.TypeExit:
				e.Kind = KindExit
			}
			e.DirectionDescription = ts.Direction.Description
		}
		events = append(events, e)
	}

	return events, nil
}

// Rebuild recomputes the stored shifts dated between from and to,
// replacing whatever was stored for that window.
func Rebuild(ctx context.Context, db *gorm.DB, from, to time.Time) (int, error) {
	events, err := Load(ctx, db, from, to)
	if err != nil {
		return 0, err
	}
	shifts := Pair(events)

	rows := make([]models.AttendanceShift, 0, len(shifts))
	seq := make(map[string]int)
	for _, s := range shifts {
		key := fmt.Sprintf("%s/%d", dayKey(s.Date), s.ContractID)
		seq[key]++
		rows = append(rows, models.AttendanceShift{
			ContractID:       s.ContractID,
			Date:             models.DateOf(time.Time(s.Date)),
			Seq:              seq[key],
			EnterTime:        s.Enter,
			EnterDescription: s.EnterDescription,
			ExitTime:         s.Exit,
			ExitDescription:  s.ExitDescription,
			OtherTime:        s.Other,
			DurationSeconds:  int64(s.Duration / time.Second),
			Notes:            s.Notes,
		})
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ret := tx.Where("date >= ? AND date <= ?", models.DateOf(from), models.DateOf(to)).
			Delete(&models.AttendanceShift{})
		if ret.Error != nil {
			return ret.Error
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}
