package main

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/lunch-watch/cliparse"
	"github.com/danielhkuo/lunch-watch/db"
	"github.com/danielhkuo/lunch-watch/notify"
	"github.com/danielhkuo/lunch-watch/plans"
	"github.com/danielhkuo/lunch-watch/proposals"
	"github.com/danielhkuo/lunch-watch/router"
	"github.com/danielhkuo/lunch-watch/scheduler"
	"github.com/danielhkuo/lunch-watch/store"
	"github.com/danielhkuo/lunch-watch/votes"
)

func main() {
	var err error

	// Load .env for local development; a missing file is fine
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the entity store
	st, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Store ready", "type", cfg.DatabaseType)

	// Wire services
	proposalSvc := proposals.NewService(st)
	planSvc := plans.NewService(st, cfg, nil)
	tally := votes.NewTally(st, rand.New(rand.NewSource(time.Now().UnixNano())))
	slack := notify.NewSlack(st.Teams(), "")
	sched := scheduler.New(st, planSvc, tally, slack, cfg, nil)

	// Register the daily ticks
	runner := cron.New(cron.WithLocation(cfg.Location))
	ticks := []struct {
		at   cliparse.TimeOfDay
		name string
		run  func(context.Context)
	}{
		{cfg.MorningReminderAt, "morning-reminder", sched.MorningReminder},
		{cfg.OwnerReminderAt, "owner-reminder", sched.OwnerReminder},
		{cfg.VoteCloseAt, "close-votes", sched.CloseVotes},
		{cfg.FinalReminderAt, "final-owner-reminder", sched.FinalOwnerReminder},
		{cfg.CancelOrphansAt, "cancel-orphans", sched.CancelOrphans},
		{cfg.CompletePlansAt, "complete-plans", sched.CompletePlans},
	}
	for _, tick := range ticks {
		run := tick.run
		name := tick.name
		_, err := runner.AddFunc(tick.at.Cron(), func() {
			slog.Info("tick started", "tick", name)
			run(context.Background())
		})
		if err != nil {
			slog.Error("failed to register tick", "tick", name, "error", err)
			os.Exit(1)
		}
	}
	runner.Start()
	defer runner.Stop()

	// Create router
	mux := router.NewRouter(st, proposalSvc, planSvc, tally, slack, slack, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore builds the entity store for the configured backend. The
// returned func closes the underlying connection, if any.
func openStore(cfg cliparse.Config) (store.Store, func(), error) {
	if cfg.DatabaseType == "memory" {
		return store.NewMemory(), func() {}, nil
	}

	// Both drivers register under the same name as the config value:
	// "postgres" (lib/pq) and "sqlite" (modernc.org/sqlite).
	conn, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return store.NewSQL(conn, cfg.Location), func() { conn.Close() }, nil
}
