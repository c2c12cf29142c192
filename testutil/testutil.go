// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/lunch-watch/cliparse"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/store"
)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3320,
		DatabaseType:      "memory",
		SigningSecret:     "test-signing-secret",
		Timezone:          "UTC",
		Location:          time.UTC,
		SameDayCutoff:     cliparse.TimeOfDay{Hour: 12},
		MorningReminderAt: cliparse.TimeOfDay{Hour: 9},
		OwnerReminderAt:   cliparse.TimeOfDay{Hour: 11},
		VoteCloseAt:       cliparse.TimeOfDay{Hour: 11, Minute: 15},
		FinalReminderAt:   cliparse.TimeOfDay{Hour: 11, Minute: 55},
		CancelOrphansAt:   cliparse.TimeOfDay{Hour: 12, Minute: 5},
		CompletePlansAt:   cliparse.TimeOfDay{Hour: 13},
	}
}

// Date builds a UTC civil date for test fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Clock returns a frozen now() function for injecting into services.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SeedProposal inserts a proposal fixture and returns the stored row.
func SeedProposal(t *testing.T, st store.Store, p models.Proposal) models.Proposal {
	t.Helper()

	if p.Team == "" {
		p.Team = "T1"
	}
	if p.Channel == "" {
		p.Channel = "C1"
	}
	if p.Partition == "" {
		p.Partition = models.PartitionKey(p.Team, p.Channel)
	}
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if p.ProposedBy == "" {
		p.ProposedBy = "U-proposer"
	}
	if p.Name == "" {
		p.Name = "Test Video"
	}
	if p.Part == 0 {
		p.Part = 1
	}
	if p.URL == "" {
		p.URL = "https://example.com/talk"
	}

	stored, err := st.Proposals().Insert(context.Background(), p)
	if err != nil {
		t.Fatalf("Failed to seed proposal: %v", err)
	}
	return stored
}

// SeedPlan inserts a plan fixture and returns the stored row.
func SeedPlan(t *testing.T, st store.Store, p models.Plan) models.Plan {
	t.Helper()

	if p.Team == "" {
		p.Team = "T1"
	}
	if p.Channel == "" {
		p.Channel = "C1"
	}
	if p.Partition == "" {
		p.Partition = models.PartitionKey(p.Team, p.Channel)
	}
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if p.CreatedBy == "" {
		p.CreatedBy = "U-creator"
	}
	if p.Date.IsZero() {
		p.Date = Date(2026, time.September, 1)
	}

	stored, err := st.Plans().Insert(context.Background(), p)
	if err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}
	return stored
}

// SeedVote upserts a vote fixture.
func SeedVote(t *testing.T, st store.Store, partition, planID, userID, rank1, rank2, rank3 string) {
	t.Helper()

	err := st.Votes().Upsert(context.Background(), models.Vote{
		Partition: models.VotePartition(partition, planID),
		UserID:    userID,
		Rank1:     rank1,
		Rank2:     rank2,
		Rank3:     rank3,
	})
	if err != nil {
		t.Fatalf("Failed to seed vote: %v", err)
	}
}

// Posted is one message recorded by the fake notifier.
type Posted struct {
	Team    string
	Channel string
	User    string // ephemeral target, empty for regular posts
	Message notify.Message
}

// FakeNotifier records messages instead of delivering them. Safe for
// concurrent use.
type FakeNotifier struct {
	mu     sync.Mutex
	posted []Posted

	// FailWith, when set, is returned from every delivery method.
	FailWith error
}

func (f *FakeNotifier) Post(ctx context.Context, team, channel string, msg notify.Message) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, Posted{Team: team, Channel: channel, Message: msg})
	return nil
}

func (f *FakeNotifier) PostEphemeral(ctx context.Context, team, channel, user string, msg notify.Message) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, Posted{Team: team, Channel: channel, User: user, Message: msg})
	return nil
}

// Messages returns a copy of everything posted so far.
func (f *FakeNotifier) Messages() []Posted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Posted(nil), f.posted...)
}

// SentTo returns the messages posted to the given channel (or user id).
func (f *FakeNotifier) SentTo(channel string) []Posted {
	var out []Posted
	for _, p := range f.Messages() {
		if p.Channel == channel {
			out = append(out, p)
		}
	}
	return out
}
