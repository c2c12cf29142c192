package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/votes"
)

func testPlan() models.Plan {
	return models.Plan{
		Partition: "T1:C1",
		ID:        "plan-1",
		CreatedBy: "U1",
		Team:      "T1",
		Channel:   "C1",
		Date:      time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
	}
}

func TestPlanAttachmentUndetermined(t *testing.T) {
	a := PlanAttachment(testPlan(), nil)

	if !strings.Contains(a.Title, "Monday, September 7") {
		t.Errorf("Got title %q, want the long date", a.Title)
	}
	if len(a.Fields) != 2 {
		t.Fatalf("Got %d fields, want owner and video", len(a.Fields))
	}
	for _, f := range a.Fields {
		if f.Value != "To be determined" {
			t.Errorf("Field %s: got %q, want To be determined", f.Title, f.Value)
		}
	}
	if len(a.Actions) != 1 || a.Actions[0].Name != "volunteer" {
		t.Errorf("Got actions %+v, want the volunteer button", a.Actions)
	}
}

func TestPlanAttachmentResolved(t *testing.T) {
	plan := testPlan()
	plan.Owner = "U7"
	plan.Video = "prop-1"
	video := &models.Proposal{ID: "prop-1", Name: "Talk", Part: 1, URL: "https://example.com/v"}

	a := PlanAttachment(plan, video)

	if a.Fields[0].Value != "<@U7>" {
		t.Errorf("Got owner field %q", a.Fields[0].Value)
	}
	if a.Fields[1].Value != "<https://example.com/v|Talk>" {
		t.Errorf("Got video field %q", a.Fields[1].Value)
	}
	if len(a.Actions) != 0 {
		t.Errorf("Got actions %+v, want none once an owner is set", a.Actions)
	}
}

func TestVoteReportMedals(t *testing.T) {
	result := votes.Result{
		Candidates: []votes.Candidate{
			{ProposalID: "a", Score: 10, Votes: 2},
			{ProposalID: "b", Score: 3, Votes: 1},
			{ProposalID: "c", Score: 1, Votes: 1},
			{ProposalID: "d", Score: 1, Votes: 1},
		},
	}
	titles := map[string]string{"a": "Alpha", "b": "Beta", "c": "Gamma", "d": "Delta"}

	msg := VoteReport(result, titles)

	if strings.Contains(msg.Text, "tie") {
		t.Errorf("Got %q, want no tie note", msg.Text)
	}
	if len(msg.Attachments) != 3 {
		t.Fatalf("Got %d attachments, want the top three only", len(msg.Attachments))
	}

	wantColors := []string{"#FFD700", "#C0C0C0", "#CD7F32"}
	for i, a := range msg.Attachments {
		if a.Color != wantColors[i] {
			t.Errorf("Place %d: got color %q, want %q", i+1, a.Color, wantColors[i])
		}
	}
	if msg.Attachments[0].Footer != "10 points, 2 votes" {
		t.Errorf("Got footer %q", msg.Attachments[0].Footer)
	}
	if msg.Attachments[2].Footer != "1 point, 1 vote" {
		t.Errorf("Got footer %q, want singular forms", msg.Attachments[2].Footer)
	}
}

func TestVoteReportTieNote(t *testing.T) {
	result := votes.Result{
		Candidates: []votes.Candidate{
			{ProposalID: "a", Score: 5, Votes: 1},
			{ProposalID: "b", Score: 5, Votes: 1},
		},
		TieBroken: true,
	}

	msg := VoteReport(result, map[string]string{"a": "A", "b": "B"})
	if !strings.Contains(msg.Text, "tie") {
		t.Errorf("Got %q, want the tie note", msg.Text)
	}
}

func TestCompletionPromptButtonValues(t *testing.T) {
	plan := testPlan()
	video := models.Proposal{Partition: "T1:C1", ID: "prop-1", Name: "Talk", Part: 2}

	msg := CompletionPrompt(plan, video)

	if !strings.Contains(msg.Text, "Talk (part 2)") {
		t.Errorf("Got %q, want the part-numbered title", msg.Text)
	}
	actions := msg.Attachments[0].Actions
	if len(actions) != 2 {
		t.Fatalf("Got %d actions, want done and incomplete", len(actions))
	}
	for _, a := range actions {
		if a.Value != "T1:C1/prop-1" {
			t.Errorf("Action %s: got value %q, want partition/proposal", a.Name, a.Value)
		}
	}
}

func TestMorningReminderMentionsDeadlineOnlyWhenUndecided(t *testing.T) {
	plan := testPlan()

	msg := MorningReminder(plan, nil, "11:15")
	if !strings.Contains(msg.Text, "11:15") {
		t.Errorf("Got %q, want the vote deadline", msg.Text)
	}

	plan.Video = "prop-1"
	video := &models.Proposal{ID: "prop-1", Name: "Talk", Part: 1}
	msg = MorningReminder(plan, video, "11:15")
	if strings.Contains(msg.Text, "11:15") {
		t.Errorf("Got %q, want no deadline once the video is chosen", msg.Text)
	}
}
