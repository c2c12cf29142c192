package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/plans"
	"github.com/danielhkuo/lunch-watch/store"
	"github.com/danielhkuo/lunch-watch/testutil"
)

// Fixed "now" for plan tests: 2026-09-01 at 10:00 UTC.
var planTestNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func newPlanHandler(st store.Store) (*PlanHandler, *testutil.FakeNotifier) {
	notifier := &testutil.FakeNotifier{}
	svc := plans.NewService(st, testutil.GetTestConfig(), testutil.Clock(planTestNow))
	return NewPlanHandler(svc, st, notifier), notifier
}

func TestScheduleEndpoint(t *testing.T) {
	st := store.NewMemory()
	handler, notifier := newPlanHandler(st)

	req := models.ScheduleRequest{Team: "T1", Channel: "C1", User: "U1", Date: "2026-09-08"}
	rec := postJSON(t, handler.Schedule, "/plans", req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Got status %d, want 201: %s", rec.Code, rec.Body)
	}

	var plan models.Plan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if plan.ID == "" {
		t.Error("Expected a generated id")
	}

	msgs := notifier.SentTo("C1")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Message.Text, "scheduled") {
		t.Fatalf("Got %v, want the announcement", msgs)
	}
	attachments := msgs[0].Message.Attachments
	if len(attachments) != 1 || len(attachments[0].Actions) != 1 {
		t.Error("Expected the volunteer button on the announcement")
	}

	// Same date again conflicts
	rec = postJSON(t, handler.Schedule, "/plans", req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("Got status %d, want 409", rec.Code)
	}
}

func TestScheduleEndpointValidation(t *testing.T) {
	handler, _ := newPlanHandler(store.NewMemory())

	req := models.ScheduleRequest{Team: "T1", Channel: "C1", User: "U1", Date: "2026-08-01"}
	rec := postJSON(t, handler.Schedule, "/plans", req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Got status %d, want 422: %s", rec.Code, rec.Body)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if body.Field != "date" {
		t.Errorf("Got field %q, want date", body.Field)
	}
}

func TestUpcomingEndpoint(t *testing.T) {
	st := store.NewMemory()
	handler, _ := newPlanHandler(st)

	testutil.SeedPlan(t, st, models.Plan{ID: "past", Date: testutil.Date(2026, time.August, 25)})
	testutil.SeedPlan(t, st, models.Plan{ID: "future", Date: testutil.Date(2026, time.September, 8)})

	req := httptest.NewRequest("GET", "/plans?team=T1&channel=C1", nil)
	rec := httptest.NewRecorder()
	handler.Upcoming(rec, req)

	var resp models.PlanListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Plans) != 1 || resp.Plans[0].ID != "future" {
		t.Errorf("Got %+v, want only the future plan", resp.Plans)
	}
}

func TestVolunteerEndpoint(t *testing.T) {
	st := store.NewMemory()
	handler, notifier := newPlanHandler(st)

	plan := testutil.SeedPlan(t, st, models.Plan{Date: testutil.Date(2026, time.September, 8)})

	volunteer := func(user string) *httptest.ResponseRecorder {
		req := models.VolunteerRequest{Team: "T1", Channel: "C1", User: user}
		body, _ := json.Marshal(req)
		httpReq := httptest.NewRequest("POST", "/plans/"+plan.ID+"/volunteer", strings.NewReader(string(body)))
		httpReq.SetPathValue("id", plan.ID)
		rec := httptest.NewRecorder()
		handler.Volunteer(rec, httpReq)
		return rec
	}

	rec := volunteer("U7")
	if rec.Code != http.StatusOK {
		t.Fatalf("Got status %d, want 200: %s", rec.Code, rec.Body)
	}

	var got models.Plan
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Owner != "U7" {
		t.Errorf("Got owner %q, want U7", got.Owner)
	}
	if len(notifier.SentTo("C1")) != 1 {
		t.Error("Expected the volunteer announcement")
	}

	// A second volunteer loses with the current owner in the message
	rec = volunteer("U8")
	if rec.Code != http.StatusConflict {
		t.Fatalf("Got status %d, want 409", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if !strings.Contains(body.Message, "U7") {
		t.Errorf("Got %q, want the winning owner named", body.Message)
	}
}
