// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/lunch-watch/middleware"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/votes"
)

type VoteHandler struct {
	tally    *votes.Tally
	notifier notify.Notifier
}

func NewVoteHandler(tally *votes.Tally, notifier notify.Notifier) *VoteHandler {
	return &VoteHandler{tally: tally, notifier: notifier}
}

// Cast handles POST /plans/{id}/votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Team == "" || req.Channel == "" || req.User == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team, channel and user are required")
		return
	}

	partition := models.PartitionKey(req.Team, req.Channel)
	v, err := h.tally.Cast(r.Context(), partition, r.PathValue("id"), req.User, req.Rank1, req.Rank2, req.Rank3)
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("vote cast", "plan_id", r.PathValue("id"), "voter", v.UserID)

	// Confirm to the voter alone; the ballot stands even if delivery fails.
	if err := h.notifier.PostEphemeral(r.Context(), req.Team, req.Channel, req.User, notify.VoteRecorded()); err != nil {
		slog.Error("failed to confirm vote", "voter", req.User, "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, v)
}
