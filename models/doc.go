// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the entity, request, and response types for the
Lunch & Watch workflow service.

# Entities

Rows are addressed by a partition key (team+channel scope) and a row id,
and carry an integer version token used for optimistic concurrency:

  - Proposal: a candidate video, with weak PlannedIn reference to a plan
  - Plan: one scheduled occurrence (date, owner, selected video)
  - Vote: one voter's ranked choices for one plan
  - Team: chat-platform credential recorded at install time

Proposal and Plan reference each other by id only. A dangling reference
(a plan pointing at a deleted proposal, or vice versa) is treated as unset
by every reader, never dereferenced unsafely.

# Plan states

A plan's state is derived from its fields, never stored:

	StateDraft        no owner, no video
	StateItemPending  owner set, video unset
	StateOwnerPending video set, owner unset
	StateReady        both set

Cancellation deletes the row; completion marks the attached proposal
complete and keeps the plan as history.

# Partition keys

	PartitionKey("T1", "C1")        = "T1:C1"       proposals, plans
	VotePartition("T1:C1", planID)  = "T1:C1:<id>"  votes
*/
package models
