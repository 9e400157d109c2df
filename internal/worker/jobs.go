package worker

import (
	"context"
	"log"

	"hotels-sync/internal/apilog"
	"hotels-sync/internal/attendance"
)

type job struct {
	defaultDays int
	run         func(ctx context.Context, s *Agent) error
}

var jobs = map[string]job{
	"attendance": {
		defaultDays: 7,
		run:         runAttendance,
	},
	"apilog_retention": {
		defaultDays: 90,
		run:         runApiLogRetention,
	},
}

// runAttendance recomputes the shifts of the last Days days, today included
func runAttendance(ctx context.Context, s *Agent) error {
	to := s.now().In(s.Location)
	from := to.AddDate(0, 0, -(s.Days - 1))

	n, err := attendance.Rebuild(ctx, s.DbConn, from, to)
	if err != nil {
		return err
	}

	log.Printf("agent#%d: stored %d attendance shifts from %s to %s", s.Id, n,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	return nil
}

// runApiLogRetention deletes audit rows older than Days days
func runApiLogRetention(ctx context.Context, s *Agent) error {
	before := s.now().In(s.Location).AddDate(0, 0, -s.Days)

	n, err := apilog.Prune(ctx, s.DbConn, before)
	if err != nil {
		return err
	}

	if n > 0 || s.Debug {
		log.Printf("agent#%d: deleted %d audit rows before %s", s.Id, n, before.Format("2006-01-02"))
	}
	return nil
}
