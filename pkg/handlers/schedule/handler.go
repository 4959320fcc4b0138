package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/taskhive/scheduler/pkg/models/api"
	"github.com/taskhive/scheduler/pkg/models/domain"
	"github.com/taskhive/scheduler/pkg/services/schedule"
)

type Handler struct {
	schedules schedule.Service
}

func NewHandler(schedules schedule.Service) *Handler {
	return &Handler{
		schedules: schedules,
	}
}

// CancelScheduledWorkflow deletes every schedule row tied to the given
// running instance id. The deletes are issued one by one without a
// transaction; a failure mid-loop leaves earlier deletions in place.
func (h *Handler) CancelScheduledWorkflow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	instanceID := r.URL.Query().Get("instanceId")

	scheduled, err := h.schedules.FindByRunningInstanceID(ctx, instanceID)
	if err != nil {
		logger.Error().
			Err(err).
			Str("instance_id", instanceID).
			Msg("failed to look up scheduled workflows")
		writeResult(ctx, w, api.Err[string](http.StatusInternalServerError, "Failed to look up scheduled workflows"))
		return
	}

	if len(scheduled) == 0 {
		writeResult(ctx, w, api.Err[string](http.StatusNotFound, "No scheduled workflow found for instanceId"))
		return
	}

	for _, sw := range scheduled {
		if err := h.schedules.DeleteByID(ctx, sw.ID); err != nil {
			logger.Error().
				Err(err).
				Str("instance_id", instanceID).
				Str("schedule_id", sw.ID).
				Msg("failed to delete scheduled workflow")
			writeResult(ctx, w, api.Err[string](http.StatusInternalServerError, "Failed to delete scheduled workflow"))
			return
		}
	}

	writeResult(ctx, w, api.Ok(http.StatusOK, "Scheduled workflow(s) cancelled and deleted", instanceID))
}

func (h *Handler) ScheduleWorkflow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.ScheduleWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(ctx, w, api.Err[api.ScheduledWorkflow](http.StatusBadRequest, "Invalid request body"))
		return
	}

	sw, err := h.schedules.Schedule(ctx, domain.ScheduleRequest{
		WorkflowName:      req.WorkflowName,
		RunningInstanceID: req.RunningInstanceID,
		CronExpression:    req.Cron,
		RunAt:             req.RunAt,
	})
	if errors.Is(err, schedule.ErrInvalidRequest) {
		writeResult(ctx, w, api.Err[api.ScheduledWorkflow](http.StatusBadRequest, err.Error()))
		return
	}
	if err != nil {
		logger.Error().
			Err(err).
			Str("workflow", req.WorkflowName).
			Msg("failed to schedule workflow")
		writeResult(ctx, w, api.Err[api.ScheduledWorkflow](http.StatusInternalServerError, "Failed to schedule workflow"))
		return
	}

	writeResult(ctx, w, api.Ok(http.StatusCreated, "Workflow scheduled", toAPI(*sw)))
}

func (h *Handler) ListScheduledWorkflows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	instanceID := r.URL.Query().Get("instanceId")

	var (
		scheduled []domain.ScheduledWorkflow
		err       error
	)
	if instanceID != "" {
		scheduled, err = h.schedules.FindByRunningInstanceID(ctx, instanceID)
	} else {
		scheduled, err = h.schedules.List(ctx)
	}
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to list scheduled workflows")
		writeResult(ctx, w, api.Err[[]api.ScheduledWorkflow](http.StatusInternalServerError, "Failed to list scheduled workflows"))
		return
	}

	response := make([]api.ScheduledWorkflow, 0, len(scheduled))
	for _, sw := range scheduled {
		response = append(response, toAPI(sw))
	}

	writeResult(ctx, w, api.Ok(http.StatusOK, "Scheduled workflows retrieved", response))
}

func (h *Handler) GetScheduledWorkflow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	sw, err := h.schedules.Get(ctx, id)
	if errors.Is(err, schedule.ErrNotFound) {
		writeResult(ctx, w, api.Err[api.ScheduledWorkflow](http.StatusNotFound, "No scheduled workflow found for id"))
		return
	}
	if err != nil {
		logger.Error().
			Err(err).
			Str("schedule_id", id).
			Msg("failed to get scheduled workflow")
		writeResult(ctx, w, api.Err[api.ScheduledWorkflow](http.StatusInternalServerError, "Failed to get scheduled workflow"))
		return
	}

	writeResult(ctx, w, api.Ok(http.StatusOK, "Scheduled workflow retrieved", toAPI(*sw)))
}

func toAPI(sw domain.ScheduledWorkflow) api.ScheduledWorkflow {
	return api.ScheduledWorkflow{
		ID:                sw.ID,
		RunningInstanceID: sw.RunningInstanceID,
		WorkflowName:      sw.WorkflowName,
		Cron:              sw.CronExpression,
		NextRunAt:         sw.NextRunAt,
		CreatedAt:         sw.CreatedAt,
	}
}

func writeResult[T any](ctx context.Context, w http.ResponseWriter, result api.Result[T]) {
	if err := result.Write(w); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
