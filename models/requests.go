// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Request types

type ProposeRequest struct {
	Team    string `json:"team"`
	Channel string `json:"channel"`
	User    string `json:"user"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Notes   string `json:"notes"`
}

type ScheduleRequest struct {
	Team    string `json:"team"`
	Channel string `json:"channel"`
	User    string `json:"user"`
	Date    string `json:"date"` // YYYY-MM-DD
	Owner   string `json:"owner,omitempty"`
	Video   string `json:"video,omitempty"`
}

type VolunteerRequest struct {
	Team    string `json:"team"`
	Channel string `json:"channel"`
	User    string `json:"user"`
}

type CastVoteRequest struct {
	Team    string `json:"team"`
	Channel string `json:"channel"`
	User    string `json:"user"`
	Rank1   string `json:"rank1"`
	Rank2   string `json:"rank2,omitempty"`
	Rank3   string `json:"rank3,omitempty"`
}

// Response types

type ProposalListResponse struct {
	Proposals []Proposal `json:"proposals"`
}

type PlanListResponse struct {
	Plans []Plan `json:"plans"`
}

type DeleteProposalResponse struct {
	Deleted          bool `json:"deleted"`
	ProposerNotified bool `json:"proposer_notified"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
