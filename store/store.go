// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"time"

	"github.com/danielhkuo/lunch-watch/models"
)

// Store bundles the per-entity stores. All operations are atomic at
// single-row granularity only; there is no multi-row transaction primitive.
// Multi-entity transitions in the services are ordered to tolerate partial
// completion.
type Store interface {
	Proposals() ProposalStore
	Plans() PlanStore
	Votes() VoteStore
	Teams() TeamStore
}

// ProposalStore persists proposal rows.
//
// Insert fails with fault.ErrAlreadyExists on id collision. Replace and
// Delete check the entity's version token and fail with
// fault.ErrVersionConflict when the stored version differs; the caller must
// have read the current version first. Successful writes return the stored
// entity with its new version.
type ProposalStore interface {
	Get(ctx context.Context, partition, id string) (models.Proposal, error)
	ListByPartition(ctx context.Context, partition string) ([]models.Proposal, error)
	Insert(ctx context.Context, p models.Proposal) (models.Proposal, error)
	Replace(ctx context.Context, p models.Proposal) (models.Proposal, error)
	Delete(ctx context.Context, p models.Proposal) error
}

// PlanStore persists plan rows. ListForDate and ListBetween scan across
// partitions; the scheduler drives every date-based transition through them.
// ListBetween bounds are inclusive.
type PlanStore interface {
	Get(ctx context.Context, partition, id string) (models.Plan, error)
	ListByPartition(ctx context.Context, partition string) ([]models.Plan, error)
	ListForDate(ctx context.Context, date time.Time) ([]models.Plan, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Plan, error)
	Insert(ctx context.Context, p models.Plan) (models.Plan, error)
	Replace(ctx context.Context, p models.Plan) (models.Plan, error)
	Delete(ctx context.Context, p models.Plan) error
}

// VoteStore persists vote rows. Votes are upserted without a version check:
// the latest vote per voter is the intended semantics, not a race to fix.
type VoteStore interface {
	Get(ctx context.Context, partition, userID string) (models.Vote, error)
	ListByPartition(ctx context.Context, partition string) ([]models.Vote, error)
	Upsert(ctx context.Context, v models.Vote) error
}

// TeamStore persists the per-team credential written by the install
// callback and read by the notifier.
type TeamStore interface {
	Get(ctx context.Context, id string) (models.Team, error)
	Upsert(ctx context.Context, t models.Team) error
}

// DateKey normalizes a timestamp to its civil date in the given location,
// at midnight. Plans are stored and scanned by this key.
func DateKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
