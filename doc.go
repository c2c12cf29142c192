// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Lunch & Watch server.

Lunch & Watch keeps a team's lunchtime video club running: members
propose videos, anyone schedules a session, the channel votes on what to
watch, someone volunteers to bring a laptop, and a set of daily ticks
nags, cancels and follows up so nobody has to.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SIGNING_SECRET=... DATABASE_URL=lunchwatch.db go run main.go

Or with flags:

	go run main.go -p 3320 -t sqlite -d lunchwatch.db -signing-secret ...

# Configuration

Required settings:

  - SIGNING_SECRET (-signing-secret): Shared secret for request signatures
  - DATABASE_URL (-d): Connection string, unless the type is memory

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - DATABASE_TYPE (-t): postgres, sqlite or memory (default: sqlite)
  - TIMEZONE (-tz): Timezone for dates and cutoffs (default: Local)
  - SLACK_CLIENT_ID / SLACK_CLIENT_SECRET: Enable the /install callback
  - SAME_DAY_CUTOFF and the six tick-time flags, all HH:MM

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (proposals, plans, votes, setup)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, signature verification, JSON helpers
  - proposals, plans, votes: The workflow core
  - scheduler: The daily ticks, composed onto a cron runner here
  - notify: Message rendering and Slack delivery
  - store: Entity storage with optimistic concurrency
  - models: Domain and request/response types
  - auth: Request signature primitives
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
