// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler drives a Lunch & Watch day through its timed ticks.

A typical day: the morning reminder goes out, the vote closes before
lunch, ownerless plans get two nags and are then cancelled, and held
plans are completed after lunch with a follow-up prompt to the owner.
Each tick is an independent method so the cron wiring in main stays a
list of one-liners and each tick can be tested in isolation.

Ticks scan by date, skip rows that don't match their predicate, and log
and continue past per-row failures. Running a tick twice repeats at most
a message.
*/
package scheduler
