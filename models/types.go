// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Plan lifecycle states, derived from fields rather than stored
const (
	StateDraft        = "draft"         // no owner, no video
	StateItemPending  = "item_pending"  // owner set, video unset
	StateOwnerPending = "owner_pending" // video set, owner unset
	StateReady        = "ready"         // both set
)

// DateOnly is the wire and storage format for plan dates.
const DateOnly = "2006-01-02"

// NewID returns a fresh row id.
func NewID() string {
	return uuid.NewString()
}

// PartitionKey builds the team+channel scope under which proposals and
// plans are grouped.
func PartitionKey(team, channel string) string {
	return team + ":" + channel
}

// VotePartition scopes vote rows to a single plan.
func VotePartition(partition, planID string) string {
	return partition + ":" + planID
}

// ChannelFromPartition recovers the channel id from a partition key.
func ChannelFromPartition(partition string) string {
	parts := strings.SplitN(partition, ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Domain types

// Proposal is a candidate video submitted by a member. PlannedIn weakly
// references a plan by id; readers must treat a dangling reference as unset.
type Proposal struct {
	Partition  string `json:"-"`
	ID         string `json:"id"`
	ProposedBy string `json:"proposed_by"`
	Team       string `json:"-"`
	Channel    string `json:"-"`
	Name       string `json:"name"`
	Part       int    `json:"part"`
	URL        string `json:"url"`
	Notes      string `json:"notes,omitempty"`
	PlannedIn  string `json:"planned_in,omitempty"`
	Complete   bool   `json:"complete"`
	Version    int64  `json:"-"`
}

// DisplayName appends the continuation part number for re-proposed videos.
func (p Proposal) DisplayName() string {
	if p.Part > 1 {
		return p.Name + " (part " + strconv.Itoa(p.Part) + ")"
	}
	return p.Name
}

// FormattedTitle renders a linked title for http(s) URLs and the plain name
// for file-share paths.
func (p Proposal) FormattedTitle() string {
	if strings.HasPrefix(p.URL, "http") {
		return "<" + p.URL + "|" + p.DisplayName() + ">"
	}
	return p.DisplayName()
}

// Plan is a single scheduled Lunch & Watch occurrence. Owner and Video are
// weak references resolved on demand; either may be empty.
type Plan struct {
	Partition string    `json:"-"`
	ID        string    `json:"id"`
	CreatedBy string    `json:"created_by"`
	Team      string    `json:"-"`
	Channel   string    `json:"-"`
	Date      time.Time `json:"date"`
	Owner     string    `json:"owner,omitempty"`
	Video     string    `json:"video,omitempty"`
	Version   int64     `json:"-"`
}

// State derives the lifecycle state from the owner and video fields.
func (p Plan) State() string {
	switch {
	case p.Owner == "" && p.Video == "":
		return StateDraft
	case p.Owner != "" && p.Video == "":
		return StateItemPending
	case p.Owner == "" && p.Video != "":
		return StateOwnerPending
	default:
		return StateReady
	}
}

// Vote is one voter's ranked choices for one plan, keyed by the plan-scoped
// partition plus the voter id. A re-submission replaces the row in full.
type Vote struct {
	Partition string `json:"-"`
	UserID    string `json:"user_id"`
	Rank1     string `json:"rank1"`
	Rank2     string `json:"rank2,omitempty"`
	Rank3     string `json:"rank3,omitempty"`
}

// Team holds the chat-platform credential recorded at install time. The
// workflow core never mutates it.
type Team struct {
	ID          string `json:"id"`
	AccessToken string `json:"-"`
}
