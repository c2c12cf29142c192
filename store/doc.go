// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides the partitioned entity storage consumed by the
workflow services.

# Contract

Each entity kind gets its own store interface with the same discipline:

  - Get returns fault.ErrNotFound for a missing row
  - Insert fails with fault.ErrAlreadyExists on id collision
  - Replace and Delete check the row's version token and fail with
    fault.ErrVersionConflict when a concurrent writer got there first
  - Votes are upserted without a version check (last write wins by design)

All operations are atomic at single-row granularity only. There is no
multi-row transaction primitive; services order multi-entity transitions so
the referenced row is written first and readers tolerate a dangling
back-reference.

# Implementations

SQL backs production deployments against PostgreSQL (lib/pq) or SQLite
(modernc.org/sqlite), with an integer version column bumped by conditional
UPDATEs. Memory implements identical semantics over mutex-guarded maps for
tests and single-process development.
*/
package store
