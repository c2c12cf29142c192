// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides shared test fixtures: seeded store rows, a
// frozen clock, a standard config, and a recording fake notifier.
package testutil
