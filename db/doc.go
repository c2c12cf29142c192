// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema for the SQL-backed store.

# Tables

  - proposal: candidate videos, keyed by (partition_key, id)
  - plan: scheduled occurrences, keyed by (partition_key, id), indexed by date
  - vote: ranked choices, keyed by (partition_key, user_id)
  - team: install credentials, keyed by id

Every row-versioned table carries a version column; the store bumps it with
conditional UPDATEs to implement optimistic concurrency. The SQL is shared
between PostgreSQL and SQLite, so there are no server-side defaults and
plan dates are stored as YYYY-MM-DD text.
*/
package db
