// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proposals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
	"github.com/danielhkuo/lunch-watch/testutil"
)

func TestProposeValidation(t *testing.T) {
	svc := NewService(store.NewMemory())

	tests := []struct {
		name      string
		videoName string
		url       string
		wantField string
	}{
		{"valid https", "Talk", "https://example.com/v", ""},
		{"valid http", "Talk", "http://example.com/v", ""},
		{"valid file share", "Talk", `\\nas\videos\talk.mp4`, ""},
		{"missing name", "", "https://example.com/v", "name"},
		{"whitespace name", "   ", "https://example.com/v", "name"},
		{"ftp url", "Talk", "ftp://example.com/v", "url"},
		{"bare hostname", "Talk", "example.com/v", "url"},
		{"empty url", "Talk", "", "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Propose(context.Background(), "T1", "C1", "U1", tt.videoName, tt.url, "")
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if p.Part != 1 {
					t.Errorf("Got part %d, want 1", p.Part)
				}
				if p.ID == "" {
					t.Error("Expected a generated id")
				}
				return
			}

			var ve *fault.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Got %v, want a validation error", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Got field %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestListActive(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)

	testutil.SeedProposal(t, st, models.Proposal{Name: "Zebra Talk"})
	testutil.SeedProposal(t, st, models.Proposal{Name: "Apple Talk"})
	testutil.SeedProposal(t, st, models.Proposal{Name: "Watched Talk", Complete: true})
	testutil.SeedProposal(t, st, models.Proposal{Name: "Other Channel", Channel: "C2"})

	active, err := svc.ListActive(context.Background(), "T1:C1")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}

	if len(active) != 2 {
		t.Fatalf("Got %d proposals, want 2", len(active))
	}
	if active[0].Name != "Apple Talk" || active[1].Name != "Zebra Talk" {
		t.Errorf("Got order %q, %q; want alphabetical", active[0].Name, active[1].Name)
	}
}

func TestListSchedulable(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)

	testutil.SeedProposal(t, st, models.Proposal{Name: "Free"})
	testutil.SeedProposal(t, st, models.Proposal{Name: "Taken", PlannedIn: "plan-1"})

	free, err := svc.ListSchedulable(context.Background(), "T1:C1")
	if err != nil {
		t.Fatalf("ListSchedulable failed: %v", err)
	}
	if len(free) != 1 || free[0].Name != "Free" {
		t.Errorf("Got %+v, want only the unattached proposal", free)
	}
}

func TestDeleteScheduledProposalBlocked(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)
	ctx := context.Background()

	plan := testutil.SeedPlan(t, st, models.Plan{Date: testutil.Date(2026, time.September, 7)})
	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk", PlannedIn: plan.ID})

	_, _, err := svc.Delete(ctx, p.Partition, p.ID, "U2")
	if !fault.IsConflict(err) {
		t.Fatalf("Got %v, want a conflict", err)
	}

	// Once the plan is gone the stale back-reference no longer blocks
	if err := st.Plans().Delete(ctx, plan); err != nil {
		t.Fatalf("Plan delete failed: %v", err)
	}
	deleted, notifyProposer, err := svc.Delete(ctx, p.Partition, p.ID, "U2")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != p.ID {
		t.Errorf("Got deleted id %q, want %q", deleted.ID, p.ID)
	}
	if !notifyProposer {
		t.Error("Expected proposer notification when another member deletes")
	}

	if _, err := st.Proposals().Get(ctx, p.Partition, p.ID); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("Proposal still present: %v", err)
	}
}

func TestDeleteByProposerSkipsNotification(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)

	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk", ProposedBy: "U1"})

	_, notifyProposer, err := svc.Delete(context.Background(), p.Partition, p.ID, "U1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if notifyProposer {
		t.Error("Proposer deleting their own proposal should not trigger a notification")
	}
}

func TestMarkComplete(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)

	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk"})

	done, err := svc.MarkComplete(context.Background(), p.Partition, p.ID)
	if err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}
	if !done.Complete {
		t.Error("Expected the proposal to be complete")
	}
}

func TestMarkIncompleteCreatesContinuation(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)
	ctx := context.Background()

	p := testutil.SeedProposal(t, st, models.Proposal{
		Name:      "Long Talk",
		Part:      1,
		PlannedIn: "plan-1",
		Notes:     "bring snacks",
	})

	next, err := svc.MarkIncomplete(ctx, p.Partition, p.ID)
	if err != nil {
		t.Fatalf("MarkIncomplete failed: %v", err)
	}

	if next.ID == p.ID {
		t.Fatal("Continuation reused the original id")
	}
	if next.Part != 2 {
		t.Errorf("Got part %d, want 2", next.Part)
	}
	if next.PlannedIn != "" {
		t.Errorf("Continuation should start unattached, got %q", next.PlannedIn)
	}
	if next.Complete {
		t.Error("Continuation should start incomplete")
	}
	if next.Name != "Long Talk" || next.Notes != "bring snacks" {
		t.Errorf("Continuation lost fields: %+v", next)
	}

	// The original row is untouched
	orig, err := st.Proposals().Get(ctx, p.Partition, p.ID)
	if err != nil {
		t.Fatalf("Get original failed: %v", err)
	}
	if orig.Part != 1 || orig.PlannedIn != "plan-1" {
		t.Errorf("Original row changed: %+v", orig)
	}
}
