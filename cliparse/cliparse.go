// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// TimeOfDay is a wall-clock cutoff (local to Config.Location).
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q (want HH:MM)", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Cron renders a standard 5-field cron expression firing daily at t.
func (t TimeOfDay) Cron() string {
	return fmt.Sprintf("%d %d * * *", t.Minute, t.Hour)
}

// Passed reports whether the wall clock of now is past t.
func (t TimeOfDay) Passed(now time.Time) bool {
	return now.Hour()*60+now.Minute() > t.Hour*60+t.Minute
}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string // postgres, sqlite or memory

	// Secrets (prefer env variables)
	SigningSecret     string
	SlackClientID     string
	SlackClientSecret string

	// Timezone all dates and cutoffs are evaluated in
	Timezone string
	Location *time.Location

	// SameDayCutoff is the wall-clock time after which a plan can no longer
	// be scheduled for today.
	SameDayCutoff TimeOfDay

	// Scheduler tick times
	MorningReminderAt TimeOfDay
	OwnerReminderAt   TimeOfDay
	VoteCloseAt       TimeOfDay
	FinalReminderAt   TimeOfDay
	CancelOrphansAt   TimeOfDay
	CompletePlansAt   TimeOfDay
}

// ParseFlags validates flags, falling back to environment variables.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("lunch-watch", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or memory)")
	fs.StringVar(&cfg.Timezone, "tz", "", "Timezone for dates and cutoffs")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SigningSecret, "signing-secret", "", "Request signing secret (prefer env)")
	fs.StringVar(&cfg.SlackClientID, "client-id", "", "Slack OAuth client id (prefer env)")
	fs.StringVar(&cfg.SlackClientSecret, "client-secret", "", "Slack OAuth client secret (prefer env)")

	// Workflow cutoffs, all HH:MM in the configured timezone
	cutoff := fs.String("same-day-cutoff", "", "Latest time to schedule a same-day plan")
	morning := fs.String("morning-reminder-at", "09:00", "Daily reminder tick")
	owner := fs.String("owner-reminder-at", "11:00", "Owner reminder tick")
	voteClose := fs.String("vote-close-at", "11:15", "Vote closing tick")
	final := fs.String("final-reminder-at", "11:55", "Final owner reminder tick")
	cancel := fs.String("cancel-orphans-at", "12:05", "Ownerless plan cancellation tick")
	complete := fs.String("complete-plans-at", "13:00", "Plan completion tick")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3320 // default
		}
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "memory" {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != "memory" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - signing secret MUST be provided, OAuth pair is optional
	// (without it the install callback is disabled)
	if cfg.SigningSecret == "" {
		cfg.SigningSecret = os.Getenv("SIGNING_SECRET")
	}
	if cfg.SigningSecret == "" {
		return Config{}, errors.New("SIGNING_SECRET required")
	}
	if cfg.SlackClientID == "" {
		cfg.SlackClientID = os.Getenv("SLACK_CLIENT_ID")
	}
	if cfg.SlackClientSecret == "" {
		cfg.SlackClientSecret = os.Getenv("SLACK_CLIENT_SECRET")
	}

	if cfg.Timezone == "" {
		cfg.Timezone = os.Getenv("TIMEZONE")
		if cfg.Timezone == "" {
			cfg.Timezone = "Local"
		}
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if *cutoff == "" {
		*cutoff = os.Getenv("SAME_DAY_CUTOFF")
		if *cutoff == "" {
			*cutoff = "12:00"
		}
	}

	for _, f := range []struct {
		value string
		dst   *TimeOfDay
	}{
		{*cutoff, &cfg.SameDayCutoff},
		{*morning, &cfg.MorningReminderAt},
		{*owner, &cfg.OwnerReminderAt},
		{*voteClose, &cfg.VoteCloseAt},
		{*final, &cfg.FinalReminderAt},
		{*cancel, &cfg.CancelOrphansAt},
		{*complete, &cfg.CompletePlansAt},
	} {
		tod, err := ParseTimeOfDay(f.value)
		if err != nil {
			return Config{}, err
		}
		*f.dst = tod
	}

	return cfg, nil
}
