package apiserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"hotels-sync/internal/apilog"
	"hotels-sync/internal/models"
	"hotels-sync/internal/tabletsync"
)

// GetExtView is the full download of a tablet
type GetExtView struct {
	Structures map[string]*tabletsync.StructureView `json:"structures"`
	Contracts  []tabletsync.ContractView            `json:"contracts"`
	Status     string                               `json:"status"`
}

func (e *GetExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ActivityExtView answers activity and extra uploads
type ActivityExtView struct {
	Status         tabletsync.Status `json:"status"`
	ActivityID     uint              `json:"activity_id"`
	ActivityRoomID uint              `json:"activity_room_id,omitempty"`
}

func (e *ActivityExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// TimestampExtView answers timestamp uploads
type TimestampExtView struct {
	Status      tabletsync.Status `json:"status"`
	TimestampID uint              `json:"timestamp_id"`
}

func (e *TimestampExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// authenticate resolves the tablet of the {tablet_id}/{password} route
// parameters.
func (s *ApiServer) authenticate(r *http.Request) (*models.Tablet, error) {
	id, err := uintParam(r, "tablet_id")
	if err != nil {
		return nil, err
	}

	tablet, err := s.auth.Authenticate(r.Context(), id, chi.URLParam(r, "password"), s.now())
	if err != nil {
		return nil, err
	}
	return tablet, nil
}

func (s *ApiServer) apiGet(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RouteGet)

	tablet, err := s.authenticate(r)
	if err != nil {
		s.fail(w, r, entry, "apiGet", err)
		return
	}

	structures, err := s.sync.Directory(r.Context(), tablet)
	if err != nil {
		s.fail(w, r, entry, "apiGet", fmt.Errorf("failed to get data from backend: %w", err))
		return
	}

	contracts, err := s.sync.Contracts(r.Context(), tablet, s.now())
	if err != nil {
		s.fail(w, r, entry, "apiGet", fmt.Errorf("failed to get data from backend: %w", err))
		return
	}

	s.record(r, entry, nil)
	render.Render(w, r, &GetExtView{
		Structures: structures,
		Contracts:  contracts,
		Status:     "OK",
	})
}

func (s *ApiServer) apiPutActivity(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RoutePutActivity)

	_, err := s.authenticate(r)
	if err != nil {
		s.fail(w, r, entry, "apiPutActivity", err)
		return
	}

	req := tabletsync.ActivityRequest{Description: description(r)}
	req.ContractID, err = uintParam(r, "contract_id")
	if err == nil {
		req.RoomID, err = uintParam(r, "room_id")
	}
	if err == nil {
		req.ServiceID, err = uintParam(r, "service_id")
	}
	if err == nil {
		req.ServiceQty, err = uintParam(r, "service_qty")
	}
	if err == nil {
		req.Timestamp, err = int64Param(r, "datetime")
	}
	if err != nil {
		s.fail(w, r, entry, "apiPutActivity", err)
		return
	}

	result, err := s.sync.PutActivity(r.Context(), req)
	if err != nil {
		s.fail(w, r, entry, "apiPutActivity", err)
		return
	}

	s.record(r, entry, nil)
	render.Render(w, r, &ActivityExtView{
		Status:         result.Status,
		ActivityID:     result.ActivityID,
		ActivityRoomID: result.ActivityRoomID,
	})
}

func (s *ApiServer) apiPutExtra(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RoutePutExtra)

	_, err := s.authenticate(r)
	if err != nil {
		s.fail(w, r, entry, "apiPutExtra", err)
		return
	}

	var roomNumber uint
	req := tabletsync.ExtraRequest{Description: description(r)}
	req.ContractID, err = uintParam(r, "contract_id")
	if err == nil {
		roomNumber, err = uintParam(r, "room_number")
	}
	if err == nil {
		req.ServiceQty, err = uintParam(r, "service_qty")
	}
	if err == nil {
		req.Timestamp, err = int64Param(r, "datetime")
	}
	if err != nil {
		s.fail(w, r, entry, "apiPutExtra", err)
		return
	}
	req.RoomNumber = int(roomNumber)

	result, err := s.sync.PutExtra(r.Context(), req)
	if err != nil {
		s.fail(w, r, entry, "apiPutExtra", err)
		return
	}

	s.record(r, entry, nil)
	render.Render(w, r, &ActivityExtView{
		Status:         result.Status,
		ActivityID:     result.ActivityID,
		ActivityRoomID: result.ActivityRoomID,
	})
}

func (s *ApiServer) apiPutTimestamp(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RoutePutTimestamp)

	// with timestamp_auth off the tablet is only recorded, as old tablets did
	if s.cfg.Api.TimestampAuth {
		_, err := s.authenticate(r)
		if err != nil {
			s.fail(w, r, entry, "apiPutTimestamp", err)
			return
		}
	}

	req := tabletsync.TimestampRequest{
		Direction:   chi.URLParam(r, "direction"),
		Description: description(r),
	}
	var err error
	req.ContractID, err = uintParam(r, "contract_id")
	if err == nil {
		req.Timestamp, err = int64Param(r, "datetime")
	}
	if err != nil {
		s.fail(w, r, entry, "apiPutTimestamp", err)
		return
	}

	result, err := s.sync.PutTimestamp(r.Context(), req)
	if err != nil {
		s.fail(w, r, entry, "apiPutTimestamp", err)
		return
	}

	s.record(r, entry, nil)
	render.Render(w, r, &TimestampExtView{
		Status:      result.Status,
		TimestampID: result.TimestampID,
	})
}
