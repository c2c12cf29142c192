// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package plans implements the state machine for a scheduled Lunch & Watch
occurrence.

States are derived from the owner and video fields (see models.Plan.State):
a plan moves toward Ready as members volunteer and the vote selects a
video, or gets cancelled by the scheduler when nobody steps up. At most one
live plan may exist per partition and date.

Scheduling a plan with a video attaches the proposal first and inserts the
plan row only after that replace succeeded. A lost optimistic-concurrency
race therefore aborts the whole operation with no orphan plan; the inverse
failure (plan insert fails after the attach) leaves only a dangling
back-reference, which every reader treats as unset.

Volunteer races resolve through the store's version check: exactly one
replace wins, the loser re-reads once and then reports the winning owner.
*/
package plans
