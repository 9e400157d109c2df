package apiserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"hotels-sync/internal/apilog"
	"hotels-sync/internal/models"
	"hotels-sync/internal/tabletsync"
)

// routeKwargs collects the URL parameters of the matched route for the
// audit row. The password never leaves the request.
func routeKwargs(r *http.Request) map[string]string {
	kwargs := make(map[string]string)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return kwargs
	}

	for i, key := range rctx.URLParams.Keys {
		if i >= len(rctx.URLParams.Values) {
			break
		}
		value := rctx.URLParams.Values[i]
		switch key {
		case "password":
			continue
		case "*":
			// mounted sub routers leave empty wildcards behind
			if value != "" {
				kwargs["description"] = tabletsync.DecodeDescription(value)
			}
		default:
			kwargs[key] = value
		}
	}

	return kwargs
}

// audit starts the audit row of a call
func (s *ApiServer) audit(r *http.Request, route apilog.Route) *models.ApiLog {
	kwargs := routeKwargs(r)
	entry := apilog.NewEntry(r, route, kwargs, s.now().In(s.location))
	if id, err := strconv.ParseUint(kwargs["tablet_id"], 10, 0); err == nil {
		entry.TabletID = uint(id)
	}

	return entry
}

// record stores the audit row. Failed calls are stored as warnings
// carrying the error text.
func (s *ApiServer) record(r *http.Request, entry *models.ApiLog, err error) {
	if err != nil {
		entry.MessageLevel = uint(apilog.LevelWarning)
		entry.Extra = err.Error()
	}

	e := apilog.Record(context.WithoutCancel(r.Context()), s.dbConn, entry)
	if e != nil {
		log.Printf("record: failed to store audit row for %s (%v)", entry.URLName, e)
	}
}

// fail logs, audits and renders a failed call
func (s *ApiServer) fail(w http.ResponseWriter, r *http.Request, entry *models.ApiLog, funcName string, err error) {
	log.Printf("%s: request failed (%v)", funcName, err)
	s.record(r, entry, err)
	render.Render(w, r, s.httpErrFrom(err))
}

func uintParam(r *http.Request, key string) (uint, error) {
	value := chi.URLParam(r, key)
	n, err := strconv.ParseUint(value, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", errInvalidArgument, key, value)
	}
	return uint(n), nil
}

func int64Param(r *http.Request, key string) (int64, error) {
	value := chi.URLParam(r, key)
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", errInvalidArgument, key, value)
	}
	return n, nil
}

// description returns the decoded optional free text tail of a PUT route
func description(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if raw == "" {
		return ""
	}
	return tabletsync.DecodeDescription(raw)
}
