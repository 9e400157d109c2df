package apilog

import (
	"fmt"
	"strconv"
	"time"
)

// Route is the closed set of API routes that write audit rows. Each route
// carries its own name, handler name and explanation renderer.
type Route int

const (
	RouteUnknown Route = iota
	RouteStatus
	RouteVersions
	RouteDates
	RouteGet
	RoutePutActivity
	RoutePutExtra
	RoutePutTimestamp
)

type routeInfo struct {
	name    string
	handler string
	explain func(kwargs map[string]string) string
}

var routeInfos = map[Route]routeInfo{
	RouteStatus: {
		name:    "api/v1/status",
		handler: "apiStatus",
		explain: func(map[string]string) string { return "Status request" },
	},
	RouteVersions: {
		name:    "api/v1/versions",
		handler: "apiVersions",
		explain: func(map[string]string) string { return "Versions request" },
	},
	RouteDates: {
		name:    "api/v1/dates",
		handler: "apiDates",
		explain: func(map[string]string) string { return "Server date and time request" },
	},
	RouteGet: {
		name:    "api/v1/get",
		handler: "apiGet",
		explain: func(kw map[string]string) string {
			return fmt.Sprintf("Tablet %s downloaded structures and contracts", kw["tablet_id"])
		},
	},
	RoutePutActivity: {
		name:    "api/v1/put/activity",
		handler: "apiPutActivity",
		explain: func(kw map[string]string) string {
			return fmt.Sprintf("Tablet %s sent activity for contract %s on %s: room %s, service %s, quantity %s%s",
				kw["tablet_id"], kw["contract_id"], unixDate(kw["datetime"]),
				kw["room_id"], kw["service_id"], kw["service_qty"], quoted(kw["description"]))
		},
	},
	RoutePutExtra: {
		name:    "api/v1/put/extra",
		handler: "apiPutExtra",
		explain: func(kw map[string]string) string {
			return fmt.Sprintf("Tablet %s sent extra for contract %s on %s: extra room #%s, quantity %s%s",
				kw["tablet_id"], kw["contract_id"], unixDate(kw["datetime"]),
				kw["room_number"], kw["service_qty"], quoted(kw["description"]))
		},
	},
	RoutePutTimestamp: {
		name:    "api/v1/put/timestamp",
		handler: "apiPutTimestamp",
		explain: func(kw map[string]string) string {
			return fmt.Sprintf("Tablet %s sent timestamp %s for contract %s at %s%s",
				kw["tablet_id"], kw["direction"], kw["contract_id"], unixDateTime(kw["datetime"]),
				quoted(kw["description"]))
		},
	},
}

// Name is the stable route name stored in the audit log
func (r Route) Name() string {
	if info, ok := routeInfos[r]; ok {
		return info.name
	}
	return "unknown"
}

// Handler is the name of the function serving the route
func (r Route) Handler() string {
	if info, ok := routeInfos[r]; ok {
		return info.handler
	}
	return ""
}

// Explain renders a human readable summary of a call with the given route
// arguments.
func (r Route) Explain(kwargs map[string]string) string {
	if info, ok := routeInfos[r]; ok {
		return info.explain(kwargs)
	}
	return "Unknown request"
}

// RouteByName maps a stored route name back to its Route
func RouteByName(name string) Route {
	for r, info := range routeInfos {
		if info.name == name {
			return r
		}
	}
	return RouteUnknown
}

func unixTime(value string) (time.Time, bool) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(n, 0).UTC(), true
}

func unixDate(value string) string {
	t, ok := unixTime(value)
	if !ok {
		return value
	}
	return t.Format(time.DateOnly)
}

func unixDateTime(value string) string {
	t, ok := unixTime(value)
	if !ok {
		return value
	}
	return t.Format(time.DateTime) + " UTC"
}

func quoted(description string) string {
	if description == "" {
		return ""
	}
	return fmt.Sprintf(" %q", description)
}
