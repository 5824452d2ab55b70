package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/household-portal/internal/calendar"
	"github.com/example/household-portal/internal/config"
	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/event"
)

// CalendarHandler serves the merged calendar feed and the dashboard summary.
type CalendarHandler struct {
	aggregator *calendar.Aggregator
	defaults   config.SourceDefaults
	responder  responder
}

// NewCalendarHandler creates a calendar handler with the configured default
// source toggles.
func NewCalendarHandler(aggregator *calendar.Aggregator, defaults config.SourceDefaults, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		aggregator: aggregator,
		defaults:   defaults,
		responder:  newResponder(logger),
	}
}

type eventPayload struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	AllDay bool           `json:"allDay"`
	Color  string         `json:"color"`
	Source string         `json:"source"`
	Props  map[string]any `json:"props,omitempty"`
}

type eventsResponse struct {
	Events       []eventPayload    `json:"events"`
	SourceErrors map[string]string `json:"sourceErrors,omitempty"`
}

// Events handles GET /calendar/events?start=...&end=...&sources=...&employeeId=...
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := dateutil.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidWindow)
		return
	}
	end, err := dateutil.ParseDate(r.URL.Query().Get("end"))
	if err != nil || end.Before(start) {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidWindow)
		return
	}

	query := calendar.Query{
		Window:     calendar.Window{Start: start, End: end},
		Toggles:    h.toggles(r.URL.Query().Get("sources")),
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employeeId")),
	}

	events, sourceErrors, err := h.aggregator.Events(ctx, query)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	payload := eventsResponse{Events: make([]eventPayload, 0, len(events))}
	for _, evt := range events {
		payload.Events = append(payload.Events, toPayload(evt))
	}
	if len(sourceErrors) > 0 {
		payload.SourceErrors = make(map[string]string, len(sourceErrors))
		for _, sourceErr := range sourceErrors {
			payload.SourceErrors[string(sourceErr.Source)] = sourceErr.Err.Error()
		}
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, payload)
}

// Summary handles GET /calendar/summary?date=...
func (h *CalendarHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var day time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dateutil.ParseDate(raw)
		if err != nil {
			h.responder.writeError(ctx, w, http.StatusBadRequest, err)
			return
		}
		day = parsed
	}

	summary, err := h.aggregator.Summary(ctx, day)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, summary)
}

// toggles derives the source toggles from a comma separated sources parameter.
// An empty parameter applies the configured defaults.
func (h *CalendarHandler) toggles(raw string) calendar.Toggles {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return calendar.Toggles{
			Tasks: h.defaults.Tasks,
			Leave: h.defaults.Leave,
			ChildLogs: calendar.ChildLogToggles{
				Feeding:  h.defaults.ChildLogs.Feeding,
				Sleep:    h.defaults.ChildLogs.Sleep,
				Diaper:   h.defaults.ChildLogs.Diaper,
				Activity: h.defaults.ChildLogs.Activity,
			},
			ImportantDates: h.defaults.ImportantDates,
			Schedules:      h.defaults.Schedules,
		}
	}
	if raw == "none" {
		return calendar.Toggles{}
	}

	var toggles calendar.Toggles
	for _, name := range strings.Split(raw, ",") {
		switch strings.TrimSpace(name) {
		case "tasks":
			toggles.Tasks = true
		case "leave":
			toggles.Leave = true
		case "feeding":
			toggles.ChildLogs.Feeding = true
		case "sleep":
			toggles.ChildLogs.Sleep = true
		case "diaper":
			toggles.ChildLogs.Diaper = true
		case "activity":
			toggles.ChildLogs.Activity = true
		case "important":
			toggles.ImportantDates = true
		case "schedules":
			toggles.Schedules = true
		}
	}
	return toggles
}

func toPayload(evt event.Event) eventPayload {
	return eventPayload{
		ID:     evt.ID,
		Title:  evt.Title,
		Start:  evt.Start,
		End:    evt.End,
		AllDay: evt.AllDay,
		Color:  evt.Color,
		Source: string(evt.Source),
		Props:  evt.Props,
	}
}
