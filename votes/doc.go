// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votes implements the ranked-choice vote on candidate videos.

Each voter submits up to three distinct choices for a plan; re-submitting
replaces the previous ballot in full. Closing a vote scores 5/3/1 points
for first/second/third choices, orders candidates by descending total, and
breaks score ties uniformly at random. The randomness source is injected
so tests can pin a seed and assert distribution properties instead of
exact outcomes.

A vote with zero ballots closes as NoVotes, which the scheduler turns into
a cancellation.
*/
package votes
