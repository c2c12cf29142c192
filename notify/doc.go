// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify renders and delivers the workflow's chat messages.

The Notifier interface abstracts the chat platform; Slack is the real
implementation and tests substitute a recording fake. All user-facing
wording lives in messages.go so the rest of the codebase deals only in
typed message constructors.

Delivery is best-effort by contract: callers log failures and move on,
because a dropped reminder must never roll back an entity write.
*/
package notify
