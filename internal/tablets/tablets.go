package tablets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"gorm.io/gorm"

	"hotels-sync/internal/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Authenticator resolves a tablet from its id and one-time password
type Authenticator struct {
	DB     *gorm.DB
	Digits otp.Digits
}

// Authenticate returns the tablet with its assigned buildings. An unknown
// id fails with ErrNotFound, a disabled tablet or a wrong password with
// ErrPermissionDenied.
func (a *Authenticator) Authenticate(ctx context.Context, id uint, password string, now time.Time) (*models.Tablet, error) {
	tablet, err := Get(ctx, a.DB, id)
	if err != nil {
		return nil, err
	}

	if !tablet.Enabled {
		return tablet, fmt.Errorf("%w for disabled status", ErrPermissionDenied)
	}

	if !VerifyCode(tablet.Guid, password, now, a.Digits) {
		return tablet, fmt.Errorf("%w for invalid password", ErrPermissionDenied)
	}

	return tablet, nil
}

// Get loads a tablet and its buildings
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Tablet, error) {
	tablet := models.Tablet{}
	err := db.WithContext(ctx).Preload("Buildings").First(&tablet, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tablet %d: %w", id, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	return &tablet, nil
}

// Create registers a new enabled tablet with a fresh GUID, assigned to the
// given buildings.
func Create(ctx context.Context, db *gorm.DB, description string, buildingIds []uint) (*models.Tablet, error) {
	buildings := make([]models.Building, 0)
	if len(buildingIds) > 0 {
		ret := db.WithContext(ctx).Where("id IN ?", buildingIds).Find(&buildings)
		if ret.Error != nil {
			return nil, ret.Error
		}
		if len(buildings) != len(buildingIds) {
			return nil, fmt.Errorf("buildings %v: %w", buildingIds, ErrNotFound)
		}
	}

	tablet := &models.Tablet{
		Description: description,
		Enabled:     true,
		Guid:        uuid.New(),
		Buildings:   buildings,
	}
	err := db.WithContext(ctx).Create(tablet).Error
	if err != nil {
		return nil, err
	}

	log.Printf("tablets: created tablet %d", tablet.ID)
	return tablet, nil
}

// SetEnabled toggles a tablet. History is kept; a disabled tablet is
// only rejected at authentication.
func SetEnabled(ctx context.Context, db *gorm.DB, id uint, enabled bool) error {
	ret := db.WithContext(ctx).Model(&models.Tablet{}).Where("id = ?", id).Update("status", enabled)
	if ret.Error != nil {
		return ret.Error
	}
	if ret.RowsAffected == 0 {
		// sqlite and postgres report matched rows, mysql reports changed ones
		_, err := Get(ctx, db, id)
		if err != nil {
			return err
		}
	}

	log.Printf("tablets: tablet %d enabled=%t", id, enabled)
	return nil
}
