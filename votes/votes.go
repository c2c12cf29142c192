// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
)

// Points awarded per rank position.
const (
	Rank1Points = 5
	Rank2Points = 3
	Rank3Points = 1
)

// Candidate is one proposal's aggregate in a closed vote.
type Candidate struct {
	ProposalID string `json:"proposal_id"`
	Score      int    `json:"score"`
	Votes      int    `json:"votes"`
}

// Result is the outcome of closing a vote. When NoVotes is set the caller
// cancels the plan; otherwise Candidates[0] is the winner and TieBroken
// reports whether first place was decided at random.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	NoVotes    bool        `json:"no_votes"`
	TieBroken  bool        `json:"tie_broken"`
}

// Tally implements ranked-choice vote casting and closing. The randomness
// source for tie-breaking is injected so tests can fix the seed.
type Tally struct {
	store store.Store

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func NewTally(st store.Store, rng *rand.Rand) *Tally {
	return &Tally{store: st, rng: rng}
}

// Cast records a voter's ranked choices for a plan. Rank1 is mandatory and
// the ranks must name distinct proposals. The row is upserted whole: a
// second submission replaces the first, last write wins by design.
func (t *Tally) Cast(ctx context.Context, partition, planID, userID, rank1, rank2, rank3 string) (models.Vote, error) {
	if rank1 == "" {
		return models.Vote{}, fault.Invalid("rank1", "a first choice is required")
	}
	if rank2 != "" && rank2 == rank1 {
		return models.Vote{}, fault.Invalid("rank2", "you cannot vote twice for the same video")
	}
	if rank3 != "" && (rank3 == rank1 || rank3 == rank2) {
		return models.Vote{}, fault.Invalid("rank3", "you cannot vote twice for the same video")
	}

	v := models.Vote{
		Partition: models.VotePartition(partition, planID),
		UserID:    userID,
		Rank1:     rank1,
		Rank2:     rank2,
		Rank3:     rank3,
	}
	if err := t.store.Votes().Upsert(ctx, v); err != nil {
		return models.Vote{}, err
	}
	return v, nil
}

// Close tallies the plan's votes: 5 points per first choice, 3 per second,
// 1 per third, grouped by proposal. Candidates are ordered by descending
// score; equal scores are ordered uniformly at random so every tied
// candidate is equally likely to rank first.
func (t *Tally) Close(ctx context.Context, partition, planID string) (Result, error) {
	rows, err := t.store.Votes().ListByPartition(ctx, models.VotePartition(partition, planID))
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{NoVotes: true}, nil
	}

	scores := make(map[string]int)
	counts := make(map[string]int)
	tally := func(proposalID string, points int) {
		if proposalID == "" {
			return
		}
		scores[proposalID] += points
		counts[proposalID]++
	}
	for _, v := range rows {
		tally(v.Rank1, Rank1Points)
		tally(v.Rank2, Rank2Points)
		tally(v.Rank3, Rank3Points)
	}

	candidates := make([]Candidate, 0, len(scores))
	for id, score := range scores {
		candidates = append(candidates, Candidate{ProposalID: id, Score: score, Votes: counts[id]})
	}

	// Give each candidate a random key, then sort by score with the key as
	// the secondary order. Equal scores end up uniformly shuffled.
	shuffle := make(map[string]int, len(candidates))
	t.mu.Lock()
	for _, c := range candidates {
		shuffle[c.ProposalID] = t.rng.Int()
	}
	t.mu.Unlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return shuffle[candidates[i].ProposalID] < shuffle[candidates[j].ProposalID]
	})

	return Result{
		Candidates: candidates,
		TieBroken:  len(candidates) > 1 && candidates[0].Score == candidates[1].Score,
	}, nil
}
