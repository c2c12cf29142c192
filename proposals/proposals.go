// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proposals

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
)

// urlPattern accepts web links and UNC file-share paths.
var urlPattern = regexp.MustCompile(`^(https?://|\\\\)`)

// Service implements the proposal lifecycle: create, list, delete, and the
// complete/incomplete transitions driven by the afternoon follow-up.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Propose validates and records a new candidate video.
func (s *Service) Propose(ctx context.Context, team, channel, userID, name, url, notes string) (models.Proposal, error) {
	if strings.TrimSpace(name) == "" {
		return models.Proposal{}, fault.Invalid("name", "a video name is required")
	}
	if !urlPattern.MatchString(url) {
		return models.Proposal{}, fault.Invalid("url", `the URL must start with http://, https:// or \\`)
	}

	p := models.Proposal{
		Partition:  models.PartitionKey(team, channel),
		ID:         models.NewID(),
		ProposedBy: userID,
		Team:       team,
		Channel:    channel,
		Name:       name,
		Part:       1,
		URL:        url,
		Notes:      notes,
	}

	p, err := s.store.Proposals().Insert(ctx, p)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("record proposal: %w", err)
	}
	return p, nil
}

// ListActive returns the incomplete proposals in a partition, ordered by
// name for display.
func (s *Service) ListActive(ctx context.Context, partition string) ([]models.Proposal, error) {
	all, err := s.store.Proposals().ListByPartition(ctx, partition)
	if err != nil {
		return nil, err
	}

	active := all[:0]
	for _, p := range all {
		if !p.Complete {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active, nil
}

// ListSchedulable returns the active proposals not yet attached to a plan.
func (s *Service) ListSchedulable(ctx context.Context, partition string) ([]models.Proposal, error) {
	active, err := s.ListActive(ctx, partition)
	if err != nil {
		return nil, err
	}

	free := active[:0]
	for _, p := range active {
		if p.PlannedIn == "" {
			free = append(free, p)
		}
	}
	return free, nil
}

// Delete removes a proposal. Deleting a proposal attached to a live plan is
// forbidden. The second return value reports whether the requester differs
// from the proposer, which drives a courtesy notification upstream.
func (s *Service) Delete(ctx context.Context, partition, id, requestedBy string) (models.Proposal, bool, error) {
	p, err := s.store.Proposals().Get(ctx, partition, id)
	if err != nil {
		return models.Proposal{}, false, err
	}

	if p.PlannedIn != "" {
		plan, err := s.store.Plans().Get(ctx, partition, p.PlannedIn)
		if err == nil {
			return models.Proposal{}, false,
				fault.Conflict("this video is already scheduled for %s", plan.Date.Format("Monday, January 2"))
		}
		if !errors.Is(err, fault.ErrNotFound) {
			return models.Proposal{}, false, err
		}
		// The referenced plan is gone; the stale back-reference does not
		// block deletion.
	}

	if err := s.store.Proposals().Delete(ctx, p); err != nil {
		return models.Proposal{}, false, err
	}
	return p, requestedBy != p.ProposedBy, nil
}

// MarkComplete flags a proposal as watched.
func (s *Service) MarkComplete(ctx context.Context, partition, id string) (models.Proposal, error) {
	p, err := s.store.Proposals().Get(ctx, partition, id)
	if err != nil {
		return models.Proposal{}, err
	}

	p.Complete = true
	return s.store.Proposals().Replace(ctx, p)
}

// MarkIncomplete re-queues an unfinished video as a fresh schedulable
// proposal with the next part number. The original row is left untouched so
// the watch history stays intact.
func (s *Service) MarkIncomplete(ctx context.Context, partition, id string) (models.Proposal, error) {
	old, err := s.store.Proposals().Get(ctx, partition, id)
	if err != nil {
		return models.Proposal{}, err
	}

	next := models.Proposal{
		Partition:  old.Partition,
		ID:         models.NewID(),
		ProposedBy: old.ProposedBy,
		Team:       old.Team,
		Channel:    old.Channel,
		Name:       old.Name,
		Part:       old.Part + 1,
		URL:        old.URL,
		Notes:      old.Notes,
	}

	next, err = s.store.Proposals().Insert(ctx, next)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("requeue proposal: %w", err)
	}
	return next, nil
}
