// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/lunch-watch/middleware"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/proposals"
)

type ProposalHandler struct {
	svc      *proposals.Service
	notifier notify.Notifier
}

func NewProposalHandler(svc *proposals.Service, n notify.Notifier) *ProposalHandler {
	return &ProposalHandler{svc: svc, notifier: n}
}

// Propose handles POST /proposals
func (h *ProposalHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req models.ProposeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Team == "" || req.Channel == "" || req.User == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team, channel and user are required")
		return
	}

	p, err := h.svc.Propose(r.Context(), req.Team, req.Channel, req.User, req.Name, req.URL, req.Notes)
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("proposal created", "proposal_id", p.ID, "proposer", p.ProposedBy)

	if err := h.notifier.Post(r.Context(), p.Team, p.Channel, notify.ProposalAdded(p)); err != nil {
		slog.Error("failed to announce proposal", "proposal_id", p.ID, "error", err)
	}

	middleware.JSONResponse(w, http.StatusCreated, p)
}

// List handles GET /proposals
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	partition, ok := partitionFromQuery(w, r)
	if !ok {
		return
	}

	var (
		rows []models.Proposal
		err  error
	)
	if r.URL.Query().Get("schedulable") == "true" {
		rows, err = h.svc.ListSchedulable(r.Context(), partition)
	} else {
		rows, err = h.svc.ListActive(r.Context(), partition)
	}
	if err != nil {
		middleware.Fail(w, err)
		return
	}
	if rows == nil {
		rows = []models.Proposal{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalListResponse{Proposals: rows})
}

// Delete handles DELETE /proposals/{id}
func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	partition, ok := partitionFromQuery(w, r)
	if !ok {
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user is required")
		return
	}

	p, notifyProposer, err := h.svc.Delete(r.Context(), partition, r.PathValue("id"), user)
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("proposal deleted", "proposal_id", p.ID, "by", user)

	// Courtesy DM when somebody removes another member's proposal.
	if notifyProposer {
		if err := h.notifier.Post(r.Context(), p.Team, p.ProposedBy, notify.ProposalRemoved(p, user)); err != nil {
			slog.Error("failed to notify proposer of removal", "proposal_id", p.ID, "error", err)
			notifyProposer = false
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteProposalResponse{
		Deleted:          true,
		ProposerNotified: notifyProposer,
	})
}

// Done handles POST /proposals/{id}/done
func (h *ProposalHandler) Done(w http.ResponseWriter, r *http.Request) {
	partition, ok := partitionFromQuery(w, r)
	if !ok {
		return
	}

	p, err := h.svc.MarkComplete(r.Context(), partition, r.PathValue("id"))
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("proposal completed", "proposal_id", p.ID)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Incomplete handles POST /proposals/{id}/incomplete
func (h *ProposalHandler) Incomplete(w http.ResponseWriter, r *http.Request) {
	partition, ok := partitionFromQuery(w, r)
	if !ok {
		return
	}

	next, err := h.svc.MarkIncomplete(r.Context(), partition, r.PathValue("id"))
	if err != nil {
		middleware.Fail(w, err)
		return
	}

	slog.Info("proposal requeued", "proposal_id", next.ID, "part", next.Part)

	if err := h.notifier.Post(r.Context(), next.Team, next.Channel, notify.ContinuationAdded(next)); err != nil {
		slog.Error("failed to announce continuation", "proposal_id", next.ID, "error", err)
	}

	middleware.JSONResponse(w, http.StatusCreated, next)
}

func partitionFromQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	team := r.URL.Query().Get("team")
	channel := r.URL.Query().Get("channel")
	if team == "" || channel == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team and channel are required")
		return "", false
	}
	return models.PartitionKey(team, channel), true
}
