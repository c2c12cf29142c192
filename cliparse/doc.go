// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses configuration from CLI flags with environment
variable fallback.

Required settings:

  - SIGNING_SECRET (--signing-secret): HMAC secret for request signatures
  - DATABASE_URL (-d): connection string (unless -t memory)

Optional settings:

  - PORT (-p): server port (default: 3320)
  - DATABASE_TYPE (-t): postgres, sqlite or memory (default: sqlite)
  - TIMEZONE (-tz): IANA timezone for dates and cutoffs (default: Local)
  - SLACK_CLIENT_ID / SLACK_CLIENT_SECRET: OAuth install credentials
  - SAME_DAY_CUTOFF (--same-day-cutoff): latest HH:MM to schedule a
    same-day plan (default: 12:00)
  - --morning-reminder-at, --owner-reminder-at, --vote-close-at,
    --final-reminder-at, --cancel-orphans-at, --complete-plans-at:
    scheduler tick times (HH:MM)

The parsed Config is an immutable value handed to every constructor; no
component reads the environment after startup.
*/
package cliparse
