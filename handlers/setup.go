// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/lunch-watch/cliparse"
	"github.com/danielhkuo/lunch-watch/middleware"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/store"
)

type SetupHandler struct {
	teams store.TeamStore
	slack *notify.Slack
	cfg   cliparse.Config
}

func NewSetupHandler(teams store.TeamStore, slack *notify.Slack, cfg cliparse.Config) *SetupHandler {
	return &SetupHandler{teams: teams, slack: slack, cfg: cfg}
}

// Install handles GET /install, the OAuth redirect at the end of a
// workspace installation. The exchanged token is upserted so reinstalling
// refreshes the credential.
func (h *SetupHandler) Install(w http.ResponseWriter, r *http.Request) {
	if h.cfg.SlackClientID == "" || h.cfg.SlackClientSecret == "" {
		middleware.ErrorResponse(w, http.StatusNotImplemented, "installation is not configured on this server")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	team, err := h.slack.ExchangeCode(r.Context(), h.cfg.SlackClientID, h.cfg.SlackClientSecret, code)
	if err != nil {
		slog.Error("oauth exchange failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "installation failed")
		return
	}

	if err := h.teams.Upsert(r.Context(), team); err != nil {
		slog.Error("failed to store team credential", "team", team.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "installation failed")
		return
	}

	slog.Info("workspace installed", "team", team.ID)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Lunch & Watch installed. You can close this window."))
}
