// Package tabletsync implements what tablets read (the building directory
// and the contracts they serve) and what they write (room activities,
// extras and clock events).
//
// Writes are idempotent: a row is created when absent, and a resubmission
// is classified (EXISTING, QUANTITY, DESCRIPTION) instead of overwriting.
// The insert is a single INSERT ... ON CONFLICT DO NOTHING so concurrent
// resubmissions are serialized by the unique indexes.
package tabletsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotels-sync/internal/models"
)

// Status is reported in the response body of write calls
type Status string

const (
	StatusOK          Status = "OK"
	StatusExisting    Status = "EXISTING"
	StatusQuantity    Status = "QUANTITY"
	StatusDescription Status = "DESCRIPTION"
	StatusNoRooms     Status = "NO ROOMS"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	DB       *gorm.DB
	Location *time.Location

	// extras are booked in the n-th room of this building with this service
	ExtrasBuildingID uint
	ExtrasServiceID  uint
}

func New(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{DB: db, Location: loc}
}

// moment converts a unix timestamp sent by a tablet to server local time
func (s *Service) moment(unix int64) time.Time {
	return time.Unix(unix, 0).In(s.Location)
}

func (s *Service) mustExist(ctx context.Context, model interface{}, name string, id uint) error {
	var n int64
	err := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", name, id, ErrNotFound)
	}
	return nil
}

// retryOnDuplicate runs fn once more when it lost an insert race that the
// database reported as a duplicate key. The second run sees the winning
// row and classifies against it.
func retryOnDuplicate(fn func() error) error {
	err := fn()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("tabletsync: concurrent insert detected, retrying (%v)", err)
		err = fn()
	}
	return err
}

// ActivityRequest is one room service done by a contract
type ActivityRequest struct {
	ContractID  uint
	RoomID      uint
	ServiceID   uint
	ServiceQty  uint
	Timestamp   int64
	Description string
}

// ActivityResult echoes the day Activity and the room line it resolved to
type ActivityResult struct {
	Status         Status
	ActivityID     uint
	ActivityRoomID uint
}

// PutActivity records a room service for the contract on the day of the
// request timestamp.
func (s *Service) PutActivity(ctx context.Context, req ActivityRequest) (*ActivityResult, error) {
	err := s.mustExist(ctx, &models.Contract{}, "contract", req.ContractID)
	if err != nil {
		return nil, err
	}
	err = s.mustExist(ctx, &models.Room{}, "room", req.RoomID)
	if err != nil {
		return nil, err
	}
	err = s.mustExist(ctx, &models.Service{}, "service", req.ServiceID)
	if err != nil {
		return nil, err
	}

	item := models.ActivityRoom{
		RoomID:      req.RoomID,
		ServiceID:   req.ServiceID,
		ServiceQty:  req.ServiceQty,
		Description: req.Description,
	}
	return s.putActivityRoom(ctx, req.ContractID, models.DateOf(s.moment(req.Timestamp)), item)
}

// ExtraRequest books an extra service in the n-th room (1-based, rooms
// ordered by id) of the extras building.
type ExtraRequest struct {
	ContractID  uint
	RoomNumber  int
	ServiceQty  uint
	Timestamp   int64
	Description string
}

// PutExtra records an extra service. When the extras building has no
// n-th room the request is not applied and StatusNoRooms is returned.
func (s *Service) PutExtra(ctx context.Context, req ExtraRequest) (*ActivityResult, error) {
	if s.ExtrasBuildingID == 0 || s.ExtrasServiceID == 0 {
		return nil, fmt.Errorf("extras are not configured: %w", ErrNotFound)
	}
	err := s.mustExist(ctx, &models.Contract{}, "contract", req.ContractID)
	if err != nil {
		return nil, err
	}

	rooms := make([]models.Room, 0)
	ret := s.DB.WithContext(ctx).Where("building_id = ?", s.ExtrasBuildingID).Order("id").Find(&rooms)
	if ret.Error != nil {
		return nil, ret.Error
	}
	if req.RoomNumber < 1 || req.RoomNumber > len(rooms) {
		log.Printf("PutExtra: no room #%d in extras building %d (%d rooms)", req.RoomNumber, s.ExtrasBuildingID, len(rooms))
		return &ActivityResult{Status: StatusNoRooms}, nil
	}

	item := models.ActivityRoom{
		RoomID:      rooms[req.RoomNumber-1].ID,
		ServiceID:   s.ExtrasServiceID,
		ServiceQty:  req.ServiceQty,
		Description: req.Description,
	}
	return s.putActivityRoom(ctx, req.ContractID, models.DateOf(s.moment(req.Timestamp)), item)
}

func (s *Service) putActivityRoom(ctx context.Context, contractID uint, date datatypes.Date, item models.ActivityRoom) (*ActivityResult, error) {
	var result *ActivityResult

	err := retryOnDuplicate(func() error {
		result = &ActivityResult{}
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			activity, err := resolveActivity(tx, contractID, date)
			if err != nil {
				return err
			}
			result.ActivityID = activity.ID

			line := item
			line.ID = 0
			line.ActivityID = activity.ID
			ret := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "activity_id"}, {Name: "room_id"}, {Name: "service_id"}},
				DoNothing: true,
			}).Create(&line)
			if ret.Error != nil {
				return ret.Error
			}
			if ret.RowsAffected > 0 {
				result.Status = StatusOK
				result.ActivityRoomID = line.ID
				return nil
			}

			existing := models.ActivityRoom{}
			err = tx.Where("activity_id = ? AND room_id = ? AND service_id = ?",
				activity.ID, item.RoomID, item.ServiceID).First(&existing).Error
			if err != nil {
				return err
			}
			result.ActivityRoomID = existing.ID
			result.Status = classify(&existing, &line)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolveActivity returns the day Activity of a contract, creating it
// when missing.
func resolveActivity(tx *gorm.DB, contractID uint, date datatypes.Date) (*models.Activity, error) {
	activity := models.Activity{ContractID: contractID, Date: date}
	ret := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contract_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&activity)
	if ret.Error != nil {
		return nil, ret.Error
	}
	if ret.RowsAffected > 0 {
		return &activity, nil
	}

	activity = models.Activity{}
	err := tx.Where("contract_id = ? AND date = ?", contractID, date).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// classify compares a stored room line with a resubmitted one
func classify(stored *models.ActivityRoom, submitted *models.ActivityRoom) Status {
	switch {
	case stored.ServiceQty != submitted.ServiceQty:
		return StatusQuantity
	case stored.Description != submitted.Description:
		return StatusDescription
	default:
		return StatusExisting
	}
}

// TimestampRequest is one clock event. Direction is a direction name or
// its numeric id.
type TimestampRequest struct {
	ContractID  uint
	Direction   string
	Timestamp   int64
	Description string
}

type TimestampResult struct {
	Status      Status
	TimestampID uint
}

// PutTimestamp records a clock event. No Enter/Exit ordering is enforced
// here, see package attendance.
func (s *Service) PutTimestamp(ctx context.Context, req TimestampRequest) (*TimestampResult, error) {
	err := s.mustExist(ctx, &models.Contract{}, "contract", req.ContractID)
	if err != nil {
		return nil, err
	}
	direction, err := s.direction(ctx, req.Direction)
	if err != nil {
		return nil, err
	}

	at := s.moment(req.Timestamp)
	var result *TimestampResult
	err = retryOnDuplicate(func() error {
		result = &TimestampResult{}
		ts := models.Timestamp{
			ContractID:  req.ContractID,
			DirectionID: direction.ID,
			Date:        models.DateOf(at),
			Time:        models.TimeOf(at),
			Description: req.Description,
		}

		db := s.DB.WithContext(ctx)
		ret := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_id"}, {Name: "direction_id"}, {Name: "date"}, {Name: "time"}},
			DoNothing: true,
		}).Create(&ts)
		if ret.Error != nil {
			return ret.Error
		}
		if ret.RowsAffected > 0 {
			result.Status = StatusOK
			result.TimestampID = ts.ID
			return nil
		}

		existing := models.Timestamp{}
		err := db.Where("contract_id = ? AND direction_id = ? AND date = ? AND time = ?",
			ts.ContractID, ts.DirectionID, ts.Date, ts.Time).First(&existing).Error
		if err != nil {
			return err
		}
		result.Status = StatusExisting
		result.TimestampID = existing.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) direction(ctx context.Context, key string) (*models.TimestampDirection, error) {
	direction := models.TimestampDirection{}
	err := s.DB.WithContext(ctx).Where("name = ?", key).First(&direction).Error
	if err == nil {
		return &direction, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, convErr := strconv.ParseUint(key, 10, 64)
	if convErr == nil {
		err = s.DB.WithContext(ctx).First(&direction, uint(id)).Error
		if err == nil {
			return &direction, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("direction %s: %w", key, ErrNotFound)
}
