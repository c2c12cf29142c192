// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
)

// Memory is an in-process Store with the same optimistic-concurrency
// semantics as the SQL store. It backs unit tests and DatabaseType=memory.
type Memory struct {
	mu        sync.Mutex
	proposals map[string]map[string]models.Proposal
	plans     map[string]map[string]models.Plan
	votes     map[string]map[string]models.Vote
	teams     map[string]models.Team
}

func NewMemory() *Memory {
	return &Memory{
		proposals: make(map[string]map[string]models.Proposal),
		plans:     make(map[string]map[string]models.Plan),
		votes:     make(map[string]map[string]models.Vote),
		teams:     make(map[string]models.Team),
	}
}

func (m *Memory) Proposals() ProposalStore { return memProposals{m} }
func (m *Memory) Plans() PlanStore         { return memPlans{m} }
func (m *Memory) Votes() VoteStore         { return memVotes{m} }
func (m *Memory) Teams() TeamStore         { return memTeams{m} }

type memProposals struct{ m *Memory }

func (s memProposals) Get(_ context.Context, partition, id string) (models.Proposal, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	p, ok := s.m.proposals[partition][id]
	if !ok {
		return models.Proposal{}, fault.ErrNotFound
	}
	return p, nil
}

func (s memProposals) ListByPartition(_ context.Context, partition string) ([]models.Proposal, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	out := make([]models.Proposal, 0, len(s.m.proposals[partition]))
	for _, p := range s.m.proposals[partition] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memProposals) Insert(_ context.Context, p models.Proposal) (models.Proposal, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.proposals[p.Partition][p.ID]; ok {
		return models.Proposal{}, fault.ErrAlreadyExists
	}
	if s.m.proposals[p.Partition] == nil {
		s.m.proposals[p.Partition] = make(map[string]models.Proposal)
	}
	p.Version = 1
	s.m.proposals[p.Partition][p.ID] = p
	return p, nil
}

func (s memProposals) Replace(_ context.Context, p models.Proposal) (models.Proposal, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.proposals[p.Partition][p.ID]
	if !ok {
		return models.Proposal{}, fault.ErrNotFound
	}
	if stored.Version != p.Version {
		return models.Proposal{}, fault.ErrVersionConflict
	}
	p.Version++
	s.m.proposals[p.Partition][p.ID] = p
	return p, nil
}

func (s memProposals) Delete(_ context.Context, p models.Proposal) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.proposals[p.Partition][p.ID]
	if !ok {
		return fault.ErrNotFound
	}
	if stored.Version != p.Version {
		return fault.ErrVersionConflict
	}
	delete(s.m.proposals[p.Partition], p.ID)
	return nil
}

type memPlans struct{ m *Memory }

func (s memPlans) Get(_ context.Context, partition, id string) (models.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	p, ok := s.m.plans[partition][id]
	if !ok {
		return models.Plan{}, fault.ErrNotFound
	}
	return p, nil
}

func (s memPlans) ListByPartition(_ context.Context, partition string) ([]models.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	out := make([]models.Plan, 0, len(s.m.plans[partition]))
	for _, p := range s.m.plans[partition] {
		out = append(out, p)
	}
	sortPlans(out)
	return out, nil
}

func (s memPlans) ListForDate(_ context.Context, date time.Time) ([]models.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	key := date.Format(models.DateOnly)
	var out []models.Plan
	for _, rows := range s.m.plans {
		for _, p := range rows {
			if p.Date.Format(models.DateOnly) == key {
				out = append(out, p)
			}
		}
	}
	sortPlans(out)
	return out, nil
}

func (s memPlans) ListBetween(_ context.Context, from, to time.Time) ([]models.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	lo, hi := from.Format(models.DateOnly), to.Format(models.DateOnly)
	var out []models.Plan
	for _, rows := range s.m.plans {
		for _, p := range rows {
			key := p.Date.Format(models.DateOnly)
			if key >= lo && key <= hi {
				out = append(out, p)
			}
		}
	}
	sortPlans(out)
	return out, nil
}

func (s memPlans) Insert(_ context.Context, p models.Plan) (models.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.plans[p.Partition][p.ID]; ok {
		return models.Plan{}, fault.ErrAlreadyExists
	}
	if s.m.plans[p.Partition] == nil {
		s.m.plans[p.Partition] = make(map[string]models.Plan)
	}
	p.Version = 1
	s.m.plans[p.Partition][p.ID] = p
	return p, nil
}

func (s memPlans) Replace(_ context.Context, p models.Plan) (models.Plan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.plans[p.Partition][p.ID]
	if !ok {
		return models.Plan{}, fault.ErrNotFound
	}
	if stored.Version != p.Version {
		return models.Plan{}, fault.ErrVersionConflict
	}
	p.Version++
	s.m.plans[p.Partition][p.ID] = p
	return p, nil
}

func (s memPlans) Delete(_ context.Context, p models.Plan) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.plans[p.Partition][p.ID]
	if !ok {
		return fault.ErrNotFound
	}
	if stored.Version != p.Version {
		return fault.ErrVersionConflict
	}
	delete(s.m.plans[p.Partition], p.ID)
	return nil
}

type memVotes struct{ m *Memory }

func (s memVotes) Get(_ context.Context, partition, userID string) (models.Vote, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	v, ok := s.m.votes[partition][userID]
	if !ok {
		return models.Vote{}, fault.ErrNotFound
	}
	return v, nil
}

func (s memVotes) ListByPartition(_ context.Context, partition string) ([]models.Vote, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	out := make([]models.Vote, 0, len(s.m.votes[partition]))
	for _, v := range s.m.votes[partition] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s memVotes) Upsert(_ context.Context, v models.Vote) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if s.m.votes[v.Partition] == nil {
		s.m.votes[v.Partition] = make(map[string]models.Vote)
	}
	s.m.votes[v.Partition][v.UserID] = v
	return nil
}

type memTeams struct{ m *Memory }

func (s memTeams) Get(_ context.Context, id string) (models.Team, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	t, ok := s.m.teams[id]
	if !ok {
		return models.Team{}, fault.ErrNotFound
	}
	return t, nil
}

func (s memTeams) Upsert(_ context.Context, t models.Team) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.teams[t.ID] = t
	return nil
}

func sortPlans(plans []models.Plan) {
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].Date.Equal(plans[j].Date) {
			return plans[i].Date.Before(plans[j].Date)
		}
		return plans[i].ID < plans[j].ID
	})
}
