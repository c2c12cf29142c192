// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package plans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/lunch-watch/cliparse"
	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
)

// Service implements the plan state machine: scheduling, ownership
// assignment, cancellation and completion. All writes go through the
// store's optimistic concurrency; there is no other synchronization.
type Service struct {
	store store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewService(st store.Store, cfg cliparse.Config, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, cfg: cfg, now: now}
}

// Schedule validates and records a new plan. When a video is supplied, the
// proposal is attached first and the plan row is only inserted once that
// write succeeded, so a lost race never leaves an orphan plan.
func (s *Service) Schedule(ctx context.Context, req models.ScheduleRequest) (models.Plan, error) {
	date, err := time.ParseInLocation(models.DateOnly, req.Date, s.cfg.Location)
	if err != nil {
		return models.Plan{}, fault.Invalid("date", "the date must be in YYYY-MM-DD format")
	}

	now := s.now().In(s.cfg.Location)
	today := store.DateKey(now, s.cfg.Location)
	isToday := date.Equal(today)

	if date.Before(today) {
		return models.Plan{}, fault.Invalid("date", "the date cannot be in the past")
	}
	if isToday && s.cfg.SameDayCutoff.Passed(now) {
		return models.Plan{}, fault.Invalid("date",
			"it is past %s, the date cannot be today", s.cfg.SameDayCutoff)
	}

	partition := models.PartitionKey(req.Team, req.Channel)

	// Read-then-insert: two simultaneous Schedule calls for the same date
	// can both pass this check. See the concurrency note in DESIGN.md.
	existing, err := s.store.Plans().ListByPartition(ctx, partition)
	if err != nil {
		return models.Plan{}, err
	}
	for _, other := range existing {
		if other.Date.Equal(date) {
			return models.Plan{}, fault.Conflict("a Lunch & Watch is already scheduled for this date")
		}
	}

	// Same-day plans cannot start undetermined: there is no time left for
	// the reminder and voting ticks to fill the gaps.
	if isToday {
		if req.Owner == "" {
			return models.Plan{}, fault.Invalid("owner", "an owner must be designated for a same-day plan")
		}
		if req.Video == "" {
			return models.Plan{}, fault.Invalid("video", "a video must be chosen for a same-day plan")
		}
	}

	planID := models.NewID()

	if req.Video != "" {
		if err := s.attachProposal(ctx, partition, req.Video, planID); err != nil {
			return models.Plan{}, err
		}
	}

	plan := models.Plan{
		Partition: partition,
		ID:        planID,
		CreatedBy: req.User,
		Team:      req.Team,
		Channel:   req.Channel,
		Date:      date,
		Owner:     req.Owner,
		Video:     req.Video,
	}

	plan, err = s.store.Plans().Insert(ctx, plan)
	if err != nil {
		// The proposal may now carry a dangling back-reference; readers
		// treat it as unset.
		return models.Plan{}, fmt.Errorf("insert plan: %w", err)
	}
	return plan, nil
}

func (s *Service) attachProposal(ctx context.Context, partition, proposalID, planID string) error {
	p, err := s.store.Proposals().Get(ctx, partition, proposalID)
	if errors.Is(err, fault.ErrNotFound) {
		return fault.Conflict("video not found")
	}
	if err != nil {
		return err
	}

	if p.PlannedIn != "" {
		other, err := s.store.Plans().Get(ctx, partition, p.PlannedIn)
		if err == nil {
			return fault.Conflict("this video is already scheduled for %s",
				other.Date.Format("Monday, January 2"))
		}
		if !errors.Is(err, fault.ErrNotFound) {
			return err
		}
	}

	p.PlannedIn = planID
	if _, err := s.store.Proposals().Replace(ctx, p); err != nil {
		// Fail closed: the plan row was not inserted yet, so a lost race
		// here aborts the whole operation with no orphan plan.
		return fmt.Errorf("attach proposal: %w", err)
	}
	return nil
}

// Volunteer assigns userID as the plan's owner. If an owner is already set
// the call fails with AlreadyAssignedError and mutates nothing. A lost
// version race is retried once; by then either the read shows the winning
// owner or the retry lands.
func (s *Service) Volunteer(ctx context.Context, partition, planID, userID string) (models.Plan, error) {
	for attempt := 0; ; attempt++ {
		plan, err := s.store.Plans().Get(ctx, partition, planID)
		if err != nil {
			return models.Plan{}, err
		}
		if plan.Owner != "" {
			return models.Plan{}, &fault.AlreadyAssignedError{Owner: plan.Owner}
		}

		plan.Owner = userID
		plan, err = s.store.Plans().Replace(ctx, plan)
		if errors.Is(err, fault.ErrVersionConflict) && attempt == 0 {
			continue
		}
		if err != nil {
			return models.Plan{}, err
		}
		return plan, nil
	}
}

// CancelOrphans deletes every plan on date still missing an owner,
// detaching its proposal first, and returns the cancelled plans. Rows that
// fail are logged and skipped so one bad row never aborts the scan;
// re-running is a no-op because the ownerless predicate no longer matches.
func (s *Service) CancelOrphans(ctx context.Context, date time.Time) ([]models.Plan, error) {
	todays, err := s.store.Plans().ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	var cancelled []models.Plan
	for _, plan := range todays {
		if plan.Owner != "" {
			continue
		}

		if plan.Video != "" {
			if err := s.detachProposal(ctx, plan); err != nil {
				slog.Error("failed to detach proposal from orphan plan",
					"plan_id", plan.ID, "video", plan.Video, "error", err)
			}
		}

		if err := s.store.Plans().Delete(ctx, plan); err != nil {
			// A concurrent volunteer or another tick won the race; the plan
			// is no longer ours to cancel.
			slog.Warn("skipping orphan plan, delete lost", "plan_id", plan.ID, "error", err)
			continue
		}
		cancelled = append(cancelled, plan)
	}
	return cancelled, nil
}

func (s *Service) detachProposal(ctx context.Context, plan models.Plan) error {
	p, err := s.store.Proposals().Get(ctx, plan.Partition, plan.Video)
	if errors.Is(err, fault.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.PlannedIn != plan.ID {
		return nil
	}

	p.PlannedIn = ""
	_, err = s.store.Proposals().Replace(ctx, p)
	return err
}

// Complete marks the plan's attached proposal as watched. The plan row is
// kept as history.
func (s *Service) Complete(ctx context.Context, plan models.Plan) (models.Proposal, error) {
	p, err := s.store.Proposals().Get(ctx, plan.Partition, plan.Video)
	if err != nil {
		return models.Proposal{}, err
	}

	p.Complete = true
	return s.store.Proposals().Replace(ctx, p)
}

// Get returns a single plan.
func (s *Service) Get(ctx context.Context, partition, planID string) (models.Plan, error) {
	return s.store.Plans().Get(ctx, partition, planID)
}

// Upcoming lists the partition's plans from today onward, soonest first.
func (s *Service) Upcoming(ctx context.Context, partition string) ([]models.Plan, error) {
	all, err := s.store.Plans().ListByPartition(ctx, partition)
	if err != nil {
		return nil, err
	}

	today := store.DateKey(s.now(), s.cfg.Location)
	upcoming := all[:0]
	for _, p := range all {
		if !p.Date.Before(today) {
			upcoming = append(upcoming, p)
		}
	}
	return upcoming, nil
}
