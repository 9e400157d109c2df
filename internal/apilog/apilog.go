// Package apilog persists and explains the audit rows written for every
// tablet API call.
package apilog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotels-sync/internal/models"
)

// Level classifies an audit row
type Level uint

const (
	LevelInfo    Level = 0
	LevelWarning Level = 20
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	default:
		return fmt.Sprintf("LEVEL%d", uint(l))
	}
}

// ApiVersion is stored with every row
const ApiVersion = 1

// NewEntry builds the audit row of a request. kwargs are the route
// arguments; credentials must already be removed by the caller.
func NewEntry(r *http.Request, route Route, kwargs map[string]string, now time.Time) *models.ApiLog {
	entry := &models.ApiLog{
		Date:          models.DateOf(now),
		Time:          models.TimeOf(now),
		MessageLevel:  uint(LevelInfo),
		Method:        r.Method,
		Path:          r.URL.Path,
		RawURI:        rawURI(r),
		URLName:       route.Name(),
		FuncName:      route.Handler(),
		RemoteAddr:    r.RemoteAddr,
		ForwardedFor:  r.Header.Get("X-Forwarded-For"),
		UserAgent:     r.Header.Get("User-Agent"),
		ClientAgent:   r.Header.Get("Client-Agent"),
		ClientVersion: r.Header.Get("Client-Version"),
		ApiVersion:    ApiVersion,
	}

	if user, _, ok := r.BasicAuth(); ok {
		entry.User = user
	}

	if len(kwargs) > 0 {
		data, err := json.MarshalIndent(kwargs, "", "  ")
		if err == nil {
			entry.Kwargs = datatypes.JSON(data)
		}
	}

	return entry
}

func rawURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// Record stores an audit row
func Record(ctx context.Context, db *gorm.DB, entry *models.ApiLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

// Recent returns the latest audit rows, newest first, optionally limited
// to one tablet (tabletID 0 means all).
func Recent(ctx context.Context, db *gorm.DB, tabletID uint, limit int) ([]models.ApiLog, error) {
	entries := make([]models.ApiLog, 0)
	query := db.WithContext(ctx).Order("id DESC").Limit(limit)
	if tabletID != 0 {
		query = query.Where("tablet_id = ?", tabletID)
	}

	ret := query.Find(&entries)
	if ret.Error != nil {
		return nil, ret.Error
	}

	return entries, nil
}

// Prune deletes audit rows dated before the given day
func Prune(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	ret := db.WithContext(ctx).Where("date < ?", models.DateOf(before)).Delete(&models.ApiLog{})
	return ret.RowsAffected, ret.Error
}

// Explain renders a stored audit row
func Explain(entry *models.ApiLog) string {
	kwargs := make(map[string]string)
	if len(entry.Kwargs) > 0 {
		// unreadable arguments still get a route level explanation
		err := json.Unmarshal(entry.Kwargs, &kwargs)
		if err != nil {
			log.Printf("Explain: failed to decode arguments of audit row %d (%v)", entry.ID, err)
		}
	}

	text := RouteByName(entry.URLName).Explain(kwargs)
	if entry.Extra != "" {
		text += " [" + entry.Extra + "]"
	}

	return text
}
