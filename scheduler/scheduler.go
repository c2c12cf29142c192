// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/lunch-watch/cliparse"
	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/plans"
	"github.com/danielhkuo/lunch-watch/store"
	"github.com/danielhkuo/lunch-watch/votes"
)

// Scheduler runs the day's recurring ticks. Each method is one tick,
// registered independently on the cron runner, and each is idempotent:
// re-running a tick after a crash repeats at most a notification, never
// an entity mutation that already happened.
type Scheduler struct {
	store    store.Store
	plans    *plans.Service
	tally    *votes.Tally
	notifier notify.Notifier
	cfg      cliparse.Config
	now      func() time.Time
}

func New(st store.Store, pl *plans.Service, tally *votes.Tally, n notify.Notifier, cfg cliparse.Config, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{store: st, plans: pl, tally: tally, notifier: n, cfg: cfg, now: now}
}

func (s *Scheduler) today() time.Time {
	return store.DateKey(s.now(), s.cfg.Location)
}

func (s *Scheduler) plansForDate(ctx context.Context, date time.Time) []models.Plan {
	rows, err := s.store.Plans().ListForDate(ctx, date)
	if err != nil {
		slog.Error("failed to list plans for tick", "date", date.Format(models.DateOnly), "error", err)
		return nil
	}
	return rows
}

func (s *Scheduler) post(ctx context.Context, plan models.Plan, msg notify.Message) {
	if err := s.notifier.Post(ctx, plan.Team, plan.Channel, msg); err != nil {
		slog.Error("failed to post notification", "plan_id", plan.ID, "channel", plan.Channel, "error", err)
	}
}

func (s *Scheduler) attachedVideo(ctx context.Context, plan models.Plan) *models.Proposal {
	if plan.Video == "" {
		return nil
	}
	p, err := s.store.Proposals().Get(ctx, plan.Partition, plan.Video)
	if err != nil {
		slog.Warn("plan references missing proposal", "plan_id", plan.ID, "video", plan.Video, "error", err)
		return nil
	}
	return &p
}

// MorningReminder posts the day-of reminder for every plan happening
// today. On Mondays it also primes the vote for this week's video-less
// plans, and on Fridays for next Monday's, so voting starts before the
// day itself.
func (s *Scheduler) MorningReminder(ctx context.Context) {
	today := s.today()
	for _, plan := range s.plansForDate(ctx, today) {
		video := s.attachedVideo(ctx, plan)
		s.post(ctx, plan, notify.MorningReminder(plan, video, s.cfg.VoteCloseAt.String()))
	}

	switch today.Weekday() {
	case time.Monday:
		s.primeVotes(ctx, today.AddDate(0, 0, 1), today.AddDate(0, 0, 5))
	case time.Friday:
		s.primeVotes(ctx, today.AddDate(0, 0, 3), today.AddDate(0, 0, 3))
	}
}

func (s *Scheduler) primeVotes(ctx context.Context, from, to time.Time) {
	rows, err := s.store.Plans().ListBetween(ctx, from, to)
	if err != nil {
		slog.Error("failed to list plans for vote priming", "error", err)
		return
	}
	for _, plan := range rows {
		if plan.Video != "" {
			continue
		}
		s.post(ctx, plan, notify.VotePrimer(plan))
	}
}

// OwnerReminder nags every ownerless plan happening today.
func (s *Scheduler) OwnerReminder(ctx context.Context) {
	for _, plan := range s.plansForDate(ctx, s.today()) {
		if plan.Owner != "" {
			continue
		}
		s.post(ctx, plan, notify.OwnerReminder(plan))
	}
}

// FinalOwnerReminder is the last call before the cancellation tick.
func (s *Scheduler) FinalOwnerReminder(ctx context.Context) {
	for _, plan := range s.plansForDate(ctx, s.today()) {
		if plan.Owner != "" {
			continue
		}
		s.post(ctx, plan, notify.FinalOwnerReminder(plan))
	}
}

// CloseVotes resolves the vote for every plan today that still has no
// video. The winner's proposal is attached first and the plan updated
// after, so a crash in between leaves a dangling back-reference readers
// ignore rather than a plan pointing at nothing. A vote with no usable
// candidates cancels the plan.
func (s *Scheduler) CloseVotes(ctx context.Context) {
	for _, plan := range s.plansForDate(ctx, s.today()) {
		if plan.Video != "" {
			continue
		}
		s.closeVote(ctx, plan)
	}
}

func (s *Scheduler) closeVote(ctx context.Context, plan models.Plan) {
	result, err := s.tally.Close(ctx, plan.Partition, plan.ID)
	if err != nil {
		slog.Error("failed to close vote", "plan_id", plan.ID, "error", err)
		return
	}
	if result.NoVotes {
		s.cancelNoVotes(ctx, plan)
		return
	}

	// Candidates may reference proposals deleted since the ballot was
	// cast; skip those and fall through to cancellation if none remain.
	titles := make(map[string]string, len(result.Candidates))
	usable := result.Candidates[:0]
	for _, c := range result.Candidates {
		p, err := s.store.Proposals().Get(ctx, plan.Partition, c.ProposalID)
		if errors.Is(err, fault.ErrNotFound) {
			continue
		}
		if err != nil {
			slog.Error("failed to resolve vote candidate", "plan_id", plan.ID, "proposal_id", c.ProposalID, "error", err)
			return
		}
		if p.Complete {
			continue
		}
		if p.PlannedIn != "" && p.PlannedIn != plan.ID {
			// Attached elsewhere only counts when that plan still exists;
			// a dangling back-reference is treated as unset.
			_, err := s.store.Plans().Get(ctx, plan.Partition, p.PlannedIn)
			if err == nil {
				continue
			}
			if !errors.Is(err, fault.ErrNotFound) {
				slog.Error("failed to resolve candidate attachment", "plan_id", plan.ID, "proposal_id", c.ProposalID, "error", err)
				return
			}
		}
		titles[c.ProposalID] = p.DisplayName()
		usable = append(usable, c)
	}
	result.Candidates = usable
	if len(usable) == 0 {
		s.cancelNoVotes(ctx, plan)
		return
	}
	result.TieBroken = len(usable) > 1 && usable[0].Score == usable[1].Score

	winner, err := s.store.Proposals().Get(ctx, plan.Partition, usable[0].ProposalID)
	if err != nil {
		slog.Error("failed to load winning proposal", "plan_id", plan.ID, "error", err)
		return
	}
	winner.PlannedIn = plan.ID
	if _, err := s.store.Proposals().Replace(ctx, winner); err != nil {
		slog.Error("failed to attach winning proposal", "plan_id", plan.ID, "proposal_id", winner.ID, "error", err)
		return
	}

	plan.Video = winner.ID
	if _, err := s.store.Plans().Replace(ctx, plan); err != nil {
		slog.Error("failed to record vote winner on plan", "plan_id", plan.ID, "error", err)
		return
	}

	s.post(ctx, plan, notify.VoteReport(result, titles))
}

func (s *Scheduler) cancelNoVotes(ctx context.Context, plan models.Plan) {
	if err := s.store.Plans().Delete(ctx, plan); err != nil {
		slog.Error("failed to cancel plan with no votes", "plan_id", plan.ID, "error", err)
		return
	}
	s.post(ctx, plan, notify.PlanCancelledNoVotes(plan))
}

// CancelOrphans deletes today's plans that never found an owner and
// announces each cancellation.
func (s *Scheduler) CancelOrphans(ctx context.Context) {
	cancelled, err := s.plans.CancelOrphans(ctx, s.today())
	if err != nil {
		slog.Error("failed to cancel ownerless plans", "error", err)
		return
	}
	for _, plan := range cancelled {
		s.post(ctx, plan, notify.PlanCancelledNoOwner(plan))
	}
}

// CompletePlans marks today's held plans as watched and asks each owner
// by direct message whether the video was finished.
func (s *Scheduler) CompletePlans(ctx context.Context) {
	for _, plan := range s.plansForDate(ctx, s.today()) {
		if plan.Owner == "" || plan.Video == "" {
			continue
		}

		video, err := s.plans.Complete(ctx, plan)
		if err != nil {
			slog.Error("failed to complete plan", "plan_id", plan.ID, "error", err)
			continue
		}

		msg := notify.CompletionPrompt(plan, video)
		if err := s.notifier.Post(ctx, plan.Team, plan.Owner, msg); err != nil {
			slog.Error("failed to send completion prompt", "plan_id", plan.ID, "owner", plan.Owner, "error", err)
		}
	}
}
