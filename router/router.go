// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/lunch-watch/cliparse"
	"github.com/danielhkuo/lunch-watch/handlers"
	"github.com/danielhkuo/lunch-watch/middleware"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/plans"
	"github.com/danielhkuo/lunch-watch/proposals"
	"github.com/danielhkuo/lunch-watch/store"
	"github.com/danielhkuo/lunch-watch/votes"
)

func NewRouter(st store.Store, prop *proposals.Service, pl *plans.Service, tally *votes.Tally, n notify.Notifier, slack *notify.Slack, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	proposalHandler := handlers.NewProposalHandler(prop, n)
	planHandler := handlers.NewPlanHandler(pl, st, n)
	voteHandler := handlers.NewVoteHandler(tally, n)
	setupHandler := handlers.NewSetupHandler(st.Teams(), slack, cfg)

	// Signed platform endpoints go through signature verification; the
	// OAuth redirect and health check do not (the browser signs nothing).
	signed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithSignature(cfg.SigningSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Proposal lifecycle
	mux.HandleFunc("POST /proposals", signed(proposalHandler.Propose))
	mux.HandleFunc("GET /proposals", signed(proposalHandler.List))
	mux.HandleFunc("DELETE /proposals/{id}", signed(proposalHandler.Delete))
	mux.HandleFunc("POST /proposals/{id}/done", signed(proposalHandler.Done))
	mux.HandleFunc("POST /proposals/{id}/incomplete", signed(proposalHandler.Incomplete))

	// Plan lifecycle
	mux.HandleFunc("POST /plans", signed(planHandler.Schedule))
	mux.HandleFunc("GET /plans", signed(planHandler.Upcoming))
	mux.HandleFunc("POST /plans/{id}/volunteer", signed(planHandler.Volunteer))

	// Voting
	mux.HandleFunc("POST /plans/{id}/votes", signed(voteHandler.Cast))

	// Workspace installation
	mux.HandleFunc("GET /install", middleware.WithLogging(setupHandler.Install))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("lunch-watch API v1"))
	})

	return mux
}
