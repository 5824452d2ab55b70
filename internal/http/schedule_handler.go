package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
	"github.com/example/household-portal/internal/schedule"
)

// ScheduleHandler exposes shift override writes.
type ScheduleHandler struct {
	service   *schedule.Service
	responder responder
}

// NewScheduleHandler creates a schedule handler.
func NewScheduleHandler(service *schedule.Service, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service:   service,
		responder: newResponder(logger),
	}
}

type overrideRequest struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Cancelled bool    `json:"cancelled"`
}

type overridePayload struct {
	ID         string  `json:"id"`
	ScheduleID string  `json:"scheduleId"`
	Date       string  `json:"date"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`
	Cancelled  bool    `json:"cancelled"`
	UpdatedAt  string  `json:"updatedAt"`
}

// UpsertOverride handles PUT /schedules/{id}/overrides/{date}.
func (h *ScheduleHandler) UpsertOverride(w http.ResponseWriter, r *http.Request, scheduleID string, date time.Time) {
	ctx := r.Context()

	var body overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	override, err := h.service.UpsertOverride(ctx, scheduleID, date, schedule.OverrideInput{
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Cancelled: body.Cancelled,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toOverridePayload(override))
}

// DeleteOverride handles DELETE /schedules/{id}/overrides/{date}. Removing a
// missing override succeeds; the resolved state is the template either way.
func (h *ScheduleHandler) DeleteOverride(w http.ResponseWriter, r *http.Request, scheduleID string, date time.Time) {
	ctx := r.Context()

	if err := h.service.DeleteOverride(ctx, scheduleID, date); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func toOverridePayload(override persistence.ScheduleOverride) overridePayload {
	return overridePayload{
		ID:         override.ID,
		ScheduleID: override.ScheduleID,
		Date:       dateutil.FormatDate(override.Date),
		StartTime:  override.StartTime,
		EndTime:    override.EndTime,
		Cancelled:  override.Cancelled,
		UpdatedAt:  override.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
