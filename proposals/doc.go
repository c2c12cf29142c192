// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package proposals implements the lifecycle of candidate videos.

A proposal is created with part 1 and complete=false, listed while
incomplete, and deleted only by explicit user action, never while it is
attached to a live plan. The afternoon follow-up resolves a watched video
either to MarkComplete, or to MarkIncomplete, which re-queues the video as
a brand-new row with the next part number ("continue watching later")
while leaving the original row untouched.
*/
package proposals
