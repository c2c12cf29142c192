// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/lunch-watch/middleware"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/plans"
	"github.com/danielhkuo/lunch-watch/store"
)

type PlanHandler struct {
	svc      *plans.Service
	store    store.Store
	notifier notify.Notifier
}

func NewPlanHandler(svc *plans.Service, st store.Store, n notify.Notifier) *PlanHandler {
	return &PlanHandler{svc: svc, store: st, notifier: n}
}

// Schedule handles POST /plans
func (h *PlanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Team == "" || req.Channel == "" || req.User == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team, channel and user are required")
		return
	}

	plan, err := h.svc.Schedule(r.Context(), req)
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("plan scheduled",
		"plan_id", plan.ID,
		"date", plan.Date.Format(models.DateOnly),
		"by", plan.CreatedBy,
	)

	if err := h.notifier.Post(r.Context(), plan.Team, plan.Channel,
		notify.PlanScheduled(plan, h.attachedVideo(r, plan))); err != nil {
		slog.Error("failed to announce plan", "plan_id", plan.ID, "error", err)
	}

	middleware.JSONResponse(w, http.StatusCreated, plan)
}

// Upcoming handles GET /plans
func (h *PlanHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	partition, ok := partitionFromQuery(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.Upcoming(r.Context(), partition)
	if err != nil {
		middleware.Fail(w, err)
		return
	}
	if rows == nil {
		rows = []models.Plan{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PlanListResponse{Plans: rows})
}

// Volunteer handles POST /plans/{id}/volunteer
func (h *PlanHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
	var req models.VolunteerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Team == "" || req.Channel == "" || req.User == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team, channel and user are required")
		return
	}

	partition := models.PartitionKey(req.Team, req.Channel)
	plan, err := h.svc.Volunteer(r.Context(), partition, r.PathValue("id"), req.User)
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("owner assigned", "plan_id", plan.ID, "owner", plan.Owner)

	msg := notify.Message{
		Text:        "We have a volunteer!",
		Attachments: []notify.Attachment{notify.PlanAttachment(plan, h.attachedVideo(r, plan))},
	}
	if err := h.notifier.Post(r.Context(), plan.Team, plan.Channel, msg); err != nil {
		slog.Error("failed to announce volunteer", "plan_id", plan.ID, "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, plan)
}

func (h *PlanHandler) attachedVideo(r *http.Request, plan models.Plan) *models.Proposal {
	if plan.Video == "" {
		return nil
	}
	p, err := h.store.Proposals().Get(r.Context(), plan.Partition, plan.Video)
	if err != nil {
		slog.Warn("plan references missing proposal", "plan_id", plan.ID, "video", plan.Video, "error", err)
		return nil
	}
	return &p
}
