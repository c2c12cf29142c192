// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"fmt"

	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/lunch-watch/models"
	"github.com/danielhkuo/lunch-watch/votes"
)

// Callback ids routing interactive button presses back to handlers.
const (
	CallbackPlanAction     = "plan_action"
	CallbackProposalAction = "proposal_action"
)

// Medal colors for the top three vote candidates.
var medalColors = [3]string{"#FFD700", "#C0C0C0", "#CD7F32"}

var medals = [3]string{"🥇", "🥈", "🥉"}

func planDate(p models.Plan) string {
	return p.Date.Format("Monday, January 2")
}

func mentionOrTBD(userID string) string {
	if userID == "" {
		return "To be determined"
	}
	return fmt.Sprintf("<@%s>", userID)
}

// PlanAttachment renders a plan's current state. video is the attached
// proposal when one is chosen, nil otherwise.
func PlanAttachment(plan models.Plan, video *models.Proposal) Attachment {
	videoField := "To be determined"
	if video != nil {
		videoField = video.FormattedTitle()
	}

	a := Attachment{
		Title:      fmt.Sprintf("Lunch & Watch on %s", planDate(plan)),
		CallbackID: CallbackPlanAction,
		Fields: []Field{
			{Title: "Owner", Value: mentionOrTBD(plan.Owner), Short: true},
			{Title: "Video", Value: videoField, Short: true},
		},
	}
	if plan.Owner == "" {
		a.Actions = append(a.Actions, Action{
			Type:  "button",
			Name:  "volunteer",
			Text:  "I'll bring my laptop",
			Value: plan.ID,
			Style: "primary",
		})
	}
	return a
}

// PlanScheduled announces a freshly scheduled plan in its channel.
func PlanScheduled(plan models.Plan, video *models.Proposal) Message {
	return Message{
		Text:        fmt.Sprintf("<@%s> just scheduled a Lunch & Watch!", plan.CreatedBy),
		Attachments: []Attachment{PlanAttachment(plan, video)},
	}
}

// ProposalAttachment renders a proposal with its delete button.
func ProposalAttachment(p models.Proposal) Attachment {
	a := Attachment{
		Title:      p.FormattedTitle(),
		Text:       p.Notes,
		AuthorName: fmt.Sprintf("Proposed by <@%s>", p.ProposedBy),
		CallbackID: CallbackProposalAction,
		Actions: []Action{{
			Type:  "button",
			Name:  "remove",
			Text:  "Remove",
			Value: p.ID,
			Style: "danger",
		}},
	}
	return a
}

// ProposalAdded confirms a new proposal to its channel.
func ProposalAdded(p models.Proposal) Message {
	return Message{
		Text:        fmt.Sprintf("<@%s> proposed a new video!", p.ProposedBy),
		Attachments: []Attachment{ProposalAttachment(p)},
	}
}

// ProposalRemoved tells the proposer somebody deleted their video.
func ProposalRemoved(p models.Proposal, removedBy string) Message {
	return Message{Text: fmt.Sprintf(
		"<@%s> removed your proposal %s.", removedBy, p.FormattedTitle())}
}

// MorningReminder is posted at the first tick of a plan's day. voteCloseAt
// is the wall-clock time votes close, rendered verbatim.
func MorningReminder(plan models.Plan, video *models.Proposal, voteCloseAt string) Message {
	text := "Reminder: there is a Lunch & Watch today!"
	if plan.Video == "" {
		text += fmt.Sprintf(" Votes for the video close at %s.", voteCloseAt)
	}
	return Message{Text: text, Attachments: []Attachment{PlanAttachment(plan, video)}}
}

// VotePrimer invites a channel to vote on an upcoming plan's video.
func VotePrimer(plan models.Plan) Message {
	return Message{Text: fmt.Sprintf(
		"A Lunch & Watch is coming up on %s and no video is chosen yet. Time to vote!",
		planDate(plan))}
}

// OwnerReminder nags the channel for a volunteer shortly before the
// ownerless plan would be cancelled.
func OwnerReminder(plan models.Plan) Message {
	return Message{
		Text:        "Today's Lunch & Watch still needs someone to bring a laptop!",
		Attachments: []Attachment{PlanAttachment(plan, nil)},
	}
}

// FinalOwnerReminder is the last call before cancellation.
func FinalOwnerReminder(plan models.Plan) Message {
	return Message{
		Text:        "Last call! Today's Lunch & Watch will be cancelled in a few minutes unless someone volunteers.",
		Attachments: []Attachment{PlanAttachment(plan, nil)},
	}
}

// PlanCancelledNoOwner announces an ownerless plan's cancellation.
func PlanCancelledNoOwner(plan models.Plan) Message {
	return Message{Text: "Today's Lunch & Watch was cancelled: nobody volunteered to bring a laptop. Better luck on the next one!"}
}

// PlanCancelledNoVotes announces a cancellation when the vote closed empty.
func PlanCancelledNoVotes(plan models.Plan) Message {
	return Message{Text: fmt.Sprintf(
		"The Lunch & Watch on %s was cancelled: nobody voted for a video.", planDate(plan))}
}

// VoteRecorded is the ephemeral confirmation shown to a voter whose
// ballot was accepted.
func VoteRecorded() Message {
	return Message{Text: "Your vote is in! Voting again replaces your previous ballot."}
}

// VoteReport renders the closed vote's top three as medal attachments.
// titles maps proposal ids to display titles; candidates missing from it
// were skipped by the caller and never reach here.
func VoteReport(result votes.Result, titles map[string]string) Message {
	msg := Message{Text: "The votes are in!"}
	if result.TieBroken {
		msg.Text += " First place was a tie, so the winner was drawn at random."
	}

	top := result.Candidates
	if len(top) > 3 {
		top = top[:3]
	}
	for i, c := range top {
		msg.Attachments = append(msg.Attachments, Attachment{
			Title: fmt.Sprintf("%s %s", medals[i], titles[c.ProposalID]),
			Color: medalColors[i],
			Footer: fmt.Sprintf("%s, %s",
				english.Plural(c.Score, "point", ""),
				english.Plural(c.Votes, "vote", "")),
		})
	}
	return msg
}

// CompletionPrompt is the direct message asking the owner whether the
// video was finished. Button values carry partition/proposal so the
// handler can act without extra lookups.
func CompletionPrompt(plan models.Plan, video models.Proposal) Message {
	value := plan.Partition + "/" + video.ID
	return Message{
		Text: fmt.Sprintf("Did you finish watching %s today?", video.FormattedTitle()),
		Attachments: []Attachment{{
			CallbackID: CallbackProposalAction,
			Actions: []Action{
				{Type: "button", Name: "done", Text: "We finished it", Value: value, Style: "primary"},
				{Type: "button", Name: "incomplete", Text: "We'll continue it", Value: value},
			},
		}},
	}
}

// ContinuationAdded announces the follow-up part created after an
// incomplete viewing.
func ContinuationAdded(next models.Proposal) Message {
	return Message{Text: fmt.Sprintf(
		"%s goes back in the queue for the next session.", next.FormattedTitle())}
}
