// Package http exposes the portal's calendar and schedule endpoints.
package http

import (
	"net/http"
	"strings"

	"github.com/example/household-portal/internal/dateutil"
)

// RouterConfig collects the handlers and middleware for the portal router.
type RouterConfig struct {
	Calendar   *CalendarHandler
	Schedules  *ScheduleHandler
	Middleware []func(http.Handler) http.Handler
}

// NewRouter builds the portal's HTTP handler.
//
//	GET    /calendar/events
//	GET    /calendar/summary
//	PUT    /schedules/{id}/overrides/{date}
//	DELETE /schedules/{id}/overrides/{date}
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Calendar != nil {
		mux.HandleFunc("/calendar/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.Events(w, r)
		})
		mux.HandleFunc("/calendar/summary", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.Summary(w, r)
		})
	}

	if cfg.Schedules != nil {
		mux.HandleFunc("/schedules/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/schedules/")
			parts := strings.Split(rest, "/")
			// Expect {id}/overrides/{date}.
			if len(parts) != 3 || parts[0] == "" || parts[1] != "overrides" || parts[2] == "" {
				http.NotFound(w, r)
				return
			}
			date, err := dateutil.ParseDate(parts[2])
			if err != nil {
				http.NotFound(w, r)
				return
			}

			switch r.Method {
			case http.MethodPut:
				cfg.Schedules.UpsertOverride(w, r, parts[0], date)
			case http.MethodDelete:
				cfg.Schedules.DeleteOverride(w, r, parts[0], date)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
