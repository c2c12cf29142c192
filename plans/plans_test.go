// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package plans

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/store"
	"github.com/danielhkuo/lunch-watch/testutil"
)

// Fixed "now": 2026-09-01 at 10:00 UTC, before the 12:00 same-day cutoff.
var testNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func newTestService(st store.Store, now time.Time) *Service {
	return NewService(st, testutil.GetTestConfig(), testutil.Clock(now))
}

func scheduleReq(date string) models.ScheduleRequest {
	return models.ScheduleRequest{Team: "T1", Channel: "C1", User: "U1", Date: date}
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		req       models.ScheduleRequest
		wantField string
	}{
		{
			name:      "garbage date",
			now:       testNow,
			req:       scheduleReq("next tuesday"),
			wantField: "date",
		},
		{
			name:      "past date",
			now:       testNow,
			req:       scheduleReq("2026-08-31"),
			wantField: "date",
		},
		{
			name:      "today past cutoff",
			now:       time.Date(2026, time.September, 1, 13, 0, 0, 0, time.UTC),
			req:       scheduleReq("2026-09-01"),
			wantField: "date",
		},
		{
			name:      "same day without owner",
			now:       testNow,
			req:       scheduleReq("2026-09-01"),
			wantField: "owner",
		},
		{
			name: "same day without video",
			now:  testNow,
			req: models.ScheduleRequest{
				Team: "T1", Channel: "C1", User: "U1",
				Date: "2026-09-01", Owner: "U1",
			},
			wantField: "video",
		},
		{
			name: "future date needs neither",
			now:  testNow,
			req:  scheduleReq("2026-09-08"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(store.NewMemory(), tt.now)

			plan, err := svc.Schedule(context.Background(), tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if plan.State() != models.StateDraft {
					t.Errorf("Got state %q, want draft", plan.State())
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

func TestScheduleDateConflict(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	ctx := context.Background()

	if _, err := svc.Schedule(ctx, scheduleReq("2026-09-08")); err != nil {
		t.Fatalf("First schedule failed: %v", err)
	}

	_, err := svc.Schedule(ctx, scheduleReq("2026-09-08"))
	var ce *fault.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Got %v, want a conflict", err)
	}

	// The same date in another channel is fine
	other := models.ScheduleRequest{Team: "T1", Channel: "C2", User: "U1", Date: "2026-09-08"}
	if _, err := svc.Schedule(ctx, other); err != nil {
		t.Errorf("Schedule in other channel failed: %v", err)
	}
}

func TestScheduleAttachesVideo(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	ctx := context.Background()

	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk"})

	req := scheduleReq("2026-09-08")
	req.Video = p.ID
	plan, err := svc.Schedule(ctx, req)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if plan.Video != p.ID {
		t.Errorf("Got video %q, want %q", plan.Video, p.ID)
	}

	attached, err := st.Proposals().Get(ctx, p.Partition, p.ID)
	if err != nil {
		t.Fatalf("Get proposal failed: %v", err)
	}
	if attached.PlannedIn != plan.ID {
		t.Errorf("Got PlannedIn %q, want %q", attached.PlannedIn, plan.ID)
	}
}

func TestScheduleRejectsVideoTakenElsewhere(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	ctx := context.Background()

	other := testutil.SeedPlan(t, st, models.Plan{Date: testutil.Date(2026, time.September, 10)})
	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk", PlannedIn: other.ID})

	req := scheduleReq("2026-09-08")
	req.Video = p.ID
	_, err := svc.Schedule(ctx, req)
	var ce *fault.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Got %v, want a conflict", err)
	}

	// No plan row was inserted for the failed schedule
	all, _ := st.Plans().ListByPartition(ctx, "T1:C1")
	if len(all) != 1 {
		t.Errorf("Got %d plans, want only the seeded one", len(all))
	}
}

func TestScheduleRejectsMissingVideo(t *testing.T) {
	svc := newTestService(store.NewMemory(), testNow)

	req := scheduleReq("2026-09-08")
	req.Video = "no-such-proposal"
	_, err := svc.Schedule(context.Background(), req)
	var ce *fault.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Got %v, want a conflict", err)
	}
}

func TestScheduleToleratesDanglingReference(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)

	// The proposal points at a plan that no longer exists
	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk", PlannedIn: "gone"})

	req := scheduleReq("2026-09-08")
	req.Video = p.ID
	if _, err := svc.Schedule(context.Background(), req); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
}

func TestVolunteer(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	ctx := context.Background()

	plan := testutil.SeedPlan(t, st, models.Plan{Date: testutil.Date(2026, time.September, 8)})

	got, err := svc.Volunteer(ctx, plan.Partition, plan.ID, "U7")
	if err != nil {
		t.Fatalf("Volunteer failed: %v", err)
	}
	if got.Owner != "U7" {
		t.Errorf("Got owner %q, want U7", got.Owner)
	}

	_, err = svc.Volunteer(ctx, plan.Partition, plan.ID, "U8")
	var ae *fault.AlreadyAssignedError
	if !errors.As(err, &ae) {
		t.Fatalf("Got %v, want AlreadyAssignedError", err)
	}
	if ae.Owner != "U7" {
		t.Errorf("Got owner %q in error, want U7", ae.Owner)
	}
}

// TestConcurrentVolunteers verifies that simultaneous volunteers race to
// exactly one winner and every loser learns who won.
func TestConcurrentVolunteers(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	plan := testutil.SeedPlan(t, st, models.Plan{Date: testutil.Date(2026, time.September, 8)})

	numVolunteers := 10
	var wins, losses atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVolunteers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			user := "U" + string(rune('A'+n))
			_, err := svc.Volunteer(context.Background(), plan.Partition, plan.ID, user)
			var ae *fault.AlreadyAssignedError
			switch {
			case err == nil:
				wins.Add(1)
			case errors.As(err, &ae):
				losses.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("Got %d winners, want exactly 1", wins.Load())
	}
	if losses.Load() != int32(numVolunteers-1) {
		t.Errorf("Got %d losers, want %d", losses.Load(), numVolunteers-1)
	}
}

func TestCancelOrphans(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	ctx := context.Background()
	today := testutil.Date(2026, time.September, 1)

	owned := testutil.SeedPlan(t, st, models.Plan{ID: "owned", Date: today, Owner: "U1"})
	orphan := testutil.SeedPlan(t, st, models.Plan{ID: "orphan", Date: today})
	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk"})
	withVideo := testutil.SeedPlan(t, st, models.Plan{ID: "orphan-video", Date: today, Video: p.ID})
	p.PlannedIn = withVideo.ID
	if _, err := st.Proposals().Replace(ctx, p); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	cancelled, err := svc.CancelOrphans(ctx, today)
	if err != nil {
		t.Fatalf("CancelOrphans failed: %v", err)
	}
	if len(cancelled) != 2 {
		t.Fatalf("Got %d cancelled plans, want 2", len(cancelled))
	}

	if _, err := st.Plans().Get(ctx, owned.Partition, owned.ID); err != nil {
		t.Errorf("Owned plan should survive: %v", err)
	}
	if _, err := st.Plans().Get(ctx, orphan.Partition, orphan.ID); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("Orphan should be gone: %v", err)
	}

	// The attached proposal is released for future plans
	freed, err := st.Proposals().Get(ctx, p.Partition, p.ID)
	if err != nil {
		t.Fatalf("Get proposal failed: %v", err)
	}
	if freed.PlannedIn != "" {
		t.Errorf("Got PlannedIn %q, want detached", freed.PlannedIn)
	}

	// Re-running finds nothing left to cancel
	again, err := svc.CancelOrphans(ctx, today)
	if err != nil {
		t.Fatalf("Second CancelOrphans failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Got %d cancelled plans on rerun, want 0", len(again))
	}
}

func TestComplete(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)
	ctx := context.Background()

	p := testutil.SeedProposal(t, st, models.Proposal{Name: "Talk"})
	plan := testutil.SeedPlan(t, st, models.Plan{
		Date: testutil.Date(2026, time.September, 1), Owner: "U1", Video: p.ID,
	})

	done, err := svc.Complete(ctx, plan)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !done.Complete {
		t.Error("Expected the proposal to be marked complete")
	}
}

func TestUpcoming(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st, testNow)

	testutil.SeedPlan(t, st, models.Plan{ID: "past", Date: testutil.Date(2026, time.August, 25)})
	testutil.SeedPlan(t, st, models.Plan{ID: "today", Date: testutil.Date(2026, time.September, 1)})
	testutil.SeedPlan(t, st, models.Plan{ID: "future", Date: testutil.Date(2026, time.September, 8)})

	upcoming, err := svc.Upcoming(context.Background(), "T1:C1")
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("Got %d plans, want 2", len(upcoming))
	}
	if upcoming[0].ID != "today" || upcoming[1].ID != "future" {
		t.Errorf("Got %q, %q; want today then future", upcoming[0].ID, upcoming[1].ID)
	}
}
