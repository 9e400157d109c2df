package tabletsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"hotels-sync/internal/models"
	"hotels-sync/internal/testkit"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	db := testkit.OpenDB(t)
	testkit.Seed(t, db)

	s := New(db, time.UTC)
	s.ExtrasBuildingID = testkit.ExtrasBuildingID
	s.ExtrasServiceID = testkit.ExtraServiceID
	return s, db
}

func TestPutActivityLifecycle(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	req := ActivityRequest{
		ContractID:  testkit.ContractID,
		RoomID:      testkit.RoomID,
		ServiceID:   testkit.ServiceID,
		ServiceQty:  1,
		Timestamp:   testkit.Now.Unix(),
		Description: "",
	}
	first, err := s.PutActivity(ctx, req)
	if err != nil {
		t.Fatalf("put activity: %v", err)
	}
	if first.Status != StatusOK || first.ActivityID == 0 || first.ActivityRoomID == 0 {
		t.Fatalf("unexpected result %+v", first)
	}

	again, err := s.PutActivity(ctx, req)
	if err != nil {
		t.Fatalf("put activity again: %v", err)
	}
	if again.Status != StatusExisting || again.ActivityID != first.ActivityID || again.ActivityRoomID != first.ActivityRoomID {
		t.Fatalf("expected EXISTING on the same rows, got %+v", again)
	}

	qty := req
	qty.ServiceQty = 2
	res, err := s.PutActivity(ctx, qty)
	if err != nil || res.Status != StatusQuantity {
		t.Fatalf("expected QUANTITY, got %+v (%v)", res, err)
	}

	desc := req
	desc.Description = "towels"
	res, err = s.PutActivity(ctx, desc)
	if err != nil || res.Status != StatusDescription {
		t.Fatalf("expected DESCRIPTION, got %+v (%v)", res, err)
	}

	if n := testkit.Count(t, db, &models.Activity{}, "contract_id = ?", testkit.ContractID); n != 1 {
		t.Fatalf("expected one activity, got %d", n)
	}
	stored := models.ActivityRoom{}
	db.First(&stored, first.ActivityRoomID)
	if stored.ServiceQty != 1 || stored.Description != "" {
		t.Fatalf("conflicting submissions must not overwrite, got %+v", stored)
	}
}

func TestPutActivitySharesTheDay(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	morning, err := s.PutActivity(ctx, ActivityRequest{
		ContractID: testkit.ContractID, RoomID: testkit.RoomID, ServiceID: testkit.ServiceID,
		ServiceQty: 1, Timestamp: testkit.Now.Unix(),
	})
	if err != nil {
		t.Fatalf("put activity: %v", err)
	}
	afternoon, err := s.PutActivity(ctx, ActivityRequest{
		ContractID: testkit.ContractID, RoomID: testkit.OtherRoomID, ServiceID: testkit.ServiceID,
		ServiceQty: 1, Timestamp: testkit.Now.Add(6 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("put activity: %v", err)
	}

	if afternoon.Status != StatusOK || afternoon.ActivityID != morning.ActivityID {
		t.Fatalf("expected a new room line on the same activity, got %+v and %+v", morning, afternoon)
	}
	if n := testkit.Count(t, db, &models.ActivityRoom{}, "activity_id = ?", morning.ActivityID); n != 2 {
		t.Fatalf("expected two room lines, got %d", n)
	}

	tomorrow, err := s.PutActivity(ctx, ActivityRequest{
		ContractID: testkit.ContractID, RoomID: testkit.RoomID, ServiceID: testkit.ServiceID,
		ServiceQty: 1, Timestamp: testkit.Now.Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("put activity: %v", err)
	}
	if tomorrow.Status != StatusOK || tomorrow.ActivityID == morning.ActivityID {
		t.Fatalf("expected a new activity for the next day, got %+v", tomorrow)
	}
}

func TestPutActivityUsesServiceTimezone(t *testing.T) {
	s, db := newService(t)
	s.Location = time.FixedZone("CET", 3600)

	// 23:30 UTC is already the next day in CET
	late := time.Date(2024, 1, 5, 23, 30, 0, 0, time.UTC)
	res, err := s.PutActivity(context.Background(), ActivityRequest{
		ContractID: testkit.ContractID, RoomID: testkit.RoomID, ServiceID: testkit.ServiceID,
		ServiceQty: 1, Timestamp: late.Unix(),
	})
	if err != nil {
		t.Fatalf("put activity: %v", err)
	}

	activity := models.Activity{}
	db.First(&activity, res.ActivityID)
	if got := models.FormatDate(activity.Date); got != "2024-01-06" {
		t.Fatalf("expected local date 2024-01-06, got %s", got)
	}
}

func TestPutActivityUnknownReferences(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	reqs := []ActivityRequest{
		{ContractID: 99, RoomID: testkit.RoomID, ServiceID: testkit.ServiceID, ServiceQty: 1},
		{ContractID: testkit.ContractID, RoomID: 99, ServiceID: testkit.ServiceID, ServiceQty: 1},
		{ContractID: testkit.ContractID, RoomID: testkit.RoomID, ServiceID: 99, ServiceQty: 1},
	}
	for _, req := range reqs {
		_, err := s.PutActivity(ctx, req)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%+v: expected not found, got %v", req, err)
		}
	}

	if n := testkit.Count(t, db, &models.Activity{}, "1 = 1"); n != 0 {
		t.Fatalf("expected no activity to be created, got %d", n)
	}
}

func TestPutExtra(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	req := ExtraRequest{
		ContractID: testkit.ContractID,
		RoomNumber: 1,
		ServiceQty: 2,
		Timestamp:  testkit.Now.Unix(),
	}
	res, err := s.PutExtra(ctx, req)
	if err != nil {
		t.Fatalf("put extra: %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("expected OK, got %+v", res)
	}

	line := models.ActivityRoom{}
	db.First(&line, res.ActivityRoomID)
	// rooms of the extras building are numbered by id, 20 comes first
	if line.RoomID != 20 || line.ServiceID != testkit.ExtraServiceID || line.ServiceQty != 2 {
		t.Fatalf("unexpected extra line %+v", line)
	}

	res, err = s.PutExtra(ctx, req)
	if err != nil || res.Status != StatusExisting {
		t.Fatalf("expected EXISTING, got %+v (%v)", res, err)
	}

	req.RoomNumber = 3
	res, err = s.PutExtra(ctx, req)
	if err != nil || res.Status != StatusNoRooms {
		t.Fatalf("expected NO ROOMS, got %+v (%v)", res, err)
	}
	if n := testkit.Count(t, db, &models.ActivityRoom{}, "1 = 1"); n != 1 {
		t.Fatalf("NO ROOMS must not write, got %d lines", n)
	}
}

func TestPutExtraNotConfigured(t *testing.T) {
	s, _ := newService(t)
	s.ExtrasBuildingID = 0

	_, err := s.PutExtra(context.Background(), ExtraRequest{ContractID: testkit.ContractID, RoomNumber: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPutTimestamp(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	req := TimestampRequest{
		ContractID: testkit.ContractID,
		Direction:  "ENTER",
		Timestamp:  testkit.Now.Unix(),
	}
	first, err := s.PutTimestamp(ctx, req)
	if err != nil {
		t.Fatalf("put timestamp: %v", err)
	}
	if first.Status != StatusOK || first.TimestampID == 0 {
		t.Fatalf("unexpected result %+v", first)
	}

	again, err := s.PutTimestamp(ctx, req)
	if err != nil {
		t.Fatalf("put timestamp again: %v", err)
	}
	if again.Status != StatusExisting || again.TimestampID != first.TimestampID {
		t.Fatalf("expected EXISTING on the same row, got %+v", again)
	}

	stored := models.Timestamp{}
	db.First(&stored, first.TimestampID)
	if stored.DirectionID != testkit.EnterDirectionID || models.FormatDate(stored.Date) != "2024-01-05" || stored.Time.String() != "08:00:00" {
		t.Fatalf("unexpected timestamp %+v", stored)
	}

	exit := TimestampRequest{
		ContractID: testkit.ContractID,
		Direction:  "2",
		Timestamp:  testkit.Now.Add(8 * time.Hour).Unix(),
	}
	res, err := s.PutTimestamp(ctx, exit)
	if err != nil || res.Status != StatusOK {
		t.Fatalf("expected OK for a direction given by id, got %+v (%v)", res, err)
	}
	db.First(&stored, res.TimestampID)
	if stored.DirectionID != testkit.ExitDirectionID {
		t.Fatalf("expected exit direction, got %d", stored.DirectionID)
	}
}

func TestPutTimestampUnknownReferences(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.PutTimestamp(ctx, TimestampRequest{ContractID: testkit.ContractID, Direction: "LUNCH"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown direction, got %v", err)
	}
	_, err = s.PutTimestamp(ctx, TimestampRequest{ContractID: testkit.ContractID, Direction: "42"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown direction id, got %v", err)
	}
	_, err = s.PutTimestamp(ctx, TimestampRequest{ContractID: 99, Direction: "ENTER"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown contract, got %v", err)
	}
}

func TestRetryOnDuplicate(t *testing.T) {
	calls := 0
	err := retryOnDuplicate(func() error {
		calls++
		if calls == 1 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("expected a single retry, got %d calls (%v)", calls, err)
	}

	calls = 0
	err = retryOnDuplicate(func() error {
		calls++
		return gorm.ErrDuplicatedKey
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) || calls != 2 {
		t.Fatalf("expected the second failure to surface, got %d calls (%v)", calls, err)
	}
}

func TestDecodeDescription(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"towels+and+soap":        "towels and soap",
		`first\nsecond/`:         "first\nsecond",
		"caff%C3%A8%20macchiato": "caffè macchiato",
		"100%":                   "100%",
	}
	for raw, want := range cases {
		if got := DecodeDescription(raw); got != want {
			t.Errorf("DecodeDescription(%q) = %q, want %q", raw, got, want)
		}
	}
}

// concurrent resubmissions of the same request end in a single row
func TestConcurrentSubmissions(t *testing.T) {
	const submitters = 20

	db := testkit.OpenFileDB(t, 8)
	testkit.Seed(t, db)
	s := New(db, time.UTC)

	type outcome struct {
		status Status
		id     uint
		err    error
	}
	race := func(submit func() (Status, uint, error)) []outcome {
		start := make(chan struct{})
		results := make(chan outcome, submitters)
		var wg sync.WaitGroup
		for i := 0; i < submitters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				status, id, err := submit()
				results <- outcome{status, id, err}
			}()
		}
		close(start)
		wg.Wait()
		close(results)

		out := make([]outcome, 0, submitters)
		for r := range results {
			out = append(out, r)
		}
		return out
	}
	check := func(name string, outcomes []outcome) {
		ok, existing := 0, 0
		var id uint
		for _, o := range outcomes {
			if o.err != nil {
				t.Fatalf("%s: submission failed: %v", name, o.err)
			}
			if id == 0 {
				id = o.id
			}
			if o.id != id {
				t.Fatalf("%s: submissions resolved to different rows %d and %d", name, id, o.id)
			}
			switch o.status {
			case StatusOK:
				ok++
			case StatusExisting:
				existing++
			default:
				t.Fatalf("%s: unexpected status %s", name, o.status)
			}
		}
		if ok != 1 || existing != submitters-1 {
			t.Fatalf("%s: expected 1 OK and %d EXISTING, got %d and %d", name, submitters-1, ok, existing)
		}
	}

	ctx := context.Background()
	activity := ActivityRequest{
		ContractID: testkit.ContractID, RoomID: testkit.RoomID, ServiceID: testkit.ServiceID,
		ServiceQty: 1, Timestamp: testkit.Now.Unix(),
	}
	check("activity", race(func() (Status, uint, error) {
		res, err := s.PutActivity(ctx, activity)
		if err != nil {
			return "", 0, err
		}
		return res.Status, res.ActivityRoomID, nil
	}))
	if n := testkit.Count(t, db, &models.Activity{}, "1 = 1"); n != 1 {
		t.Fatalf("expected one activity, got %d", n)
	}
	if n := testkit.Count(t, db, &models.ActivityRoom{}, "1 = 1"); n != 1 {
		t.Fatalf("expected one room line, got %d", n)
	}

	timestamp := TimestampRequest{ContractID: testkit.ContractID, Direction: "ENTER", Timestamp: testkit.Now.Unix()}
	check("timestamp", race(func() (Status, uint, error) {
		res, err := s.PutTimestamp(ctx, timestamp)
		if err != nil {
			return "", 0, err
		}
		return res.Status, res.TimestampID, nil
	}))
	if n := testkit.Count(t, db, &models.Timestamp{}, "1 = 1"); n != 1 {
		t.Fatalf("expected one timestamp, got %d", n)
	}
}
