// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The statements are kept
// portable between PostgreSQL and SQLite: dates are YYYY-MM-DD text and
// there are no database-side defaults.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Proposals (candidate videos)
CREATE TABLE IF NOT EXISTS proposal (
    partition_key TEXT NOT NULL,
    id TEXT NOT NULL,
    proposed_by TEXT NOT NULL,
    team TEXT NOT NULL,
    channel TEXT NOT NULL,
    name TEXT NOT NULL,
    part INTEGER NOT NULL,
    url TEXT NOT NULL,
    notes TEXT NOT NULL,
    planned_in TEXT NOT NULL,
    complete BOOLEAN NOT NULL,
    version BIGINT NOT NULL,
    PRIMARY KEY (partition_key, id)
);

-- Plans (scheduled occurrences)
CREATE TABLE IF NOT EXISTS plan (
    partition_key TEXT NOT NULL,
    id TEXT NOT NULL,
    created_by TEXT NOT NULL,
    team TEXT NOT NULL,
    channel TEXT NOT NULL,
    date TEXT NOT NULL,
    owner TEXT NOT NULL,
    video TEXT NOT NULL,
    version BIGINT NOT NULL,
    PRIMARY KEY (partition_key, id)
);

CREATE INDEX IF NOT EXISTS idx_plan_date ON plan(date);

-- Votes (one row per voter per plan, partition is plan-scoped)
CREATE TABLE IF NOT EXISTS vote (
    partition_key TEXT NOT NULL,
    user_id TEXT NOT NULL,
    rank1 TEXT NOT NULL,
    rank2 TEXT NOT NULL,
    rank3 TEXT NOT NULL,
    PRIMARY KEY (partition_key, user_id)
);

-- Teams (install credentials)
CREATE TABLE IF NOT EXISTS team (
    id TEXT PRIMARY KEY,
    access_token TEXT NOT NULL
);
`
