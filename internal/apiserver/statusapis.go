package apiserver

import (
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/render"

	"hotels-sync/internal/apilog"
)

const defaultProductName = "hotels-sync"

// StatusExtView is the liveness answer
type StatusExtView struct {
	Status      string `json:"status"`
	ProductName string `json:"productname"`
	Version     string `json:"version"`
}

func (e *StatusExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// VersionsExtView lists the product, runtime and dependency versions
type VersionsExtView struct {
	Status      string            `json:"status"`
	ProductName string            `json:"productname"`
	Version     string            `json:"version"`
	GoVersion   string            `json:"go"`
	Modules     map[string]string `json:"modules"`
}

func (e *VersionsExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// DatesExtView is the server clock, used by tablets to detect drift
type DatesExtView struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

func (e *DatesExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *ApiServer) productName() string {
	if s.cfg.Api.ProductName != "" {
		return s.cfg.Api.ProductName
	}
	return defaultProductName
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

func (s *ApiServer) apiStatus(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RouteStatus)
	s.record(r, entry, nil)

	render.Render(w, r, &StatusExtView{
		Status:      "OK",
		ProductName: s.productName(),
		Version:     buildVersion(),
	})
}

func (s *ApiServer) apiVersions(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RouteVersions)

	o := &VersionsExtView{
		Status:      "OK",
		ProductName: s.productName(),
		Version:     buildVersion(),
		GoVersion:   runtime.Version(),
		Modules:     make(map[string]string),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			o.Modules[dep.Path] = dep.Version
		}
	}

	s.record(r, entry, nil)
	render.Render(w, r, o)
}

func (s *ApiServer) apiDates(w http.ResponseWriter, r *http.Request) {
	entry := s.audit(r, apilog.RouteDates)
	s.record(r, entry, nil)

	now := s.now().In(s.location)
	render.Render(w, r, &DatesExtView{
		Date:   now.Format("2006-01-02"),
		Time:   now.Format("15:04.05"),
		Status: "OK",
	})
}
