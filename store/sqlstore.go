// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
)

// SQL is a Store backed by database/sql, against PostgreSQL (lib/pq) or
// SQLite (modernc.org/sqlite). Version tokens are an integer column bumped
// by conditional UPDATEs, so replace/delete lose cleanly when a concurrent
// writer got there first. Dates are stored as YYYY-MM-DD text and
// materialized in loc.
type SQL struct {
	db  *sql.DB
	loc *time.Location
}

func NewSQL(db *sql.DB, loc *time.Location) *SQL {
	return &SQL{db: db, loc: loc}
}

func (s *SQL) Proposals() ProposalStore { return sqlProposals{s} }
func (s *SQL) Plans() PlanStore         { return sqlPlans{s} }
func (s *SQL) Votes() VoteStore         { return sqlVotes{s} }
func (s *SQL) Teams() TeamStore         { return sqlTeams{s} }

// isDuplicate recognizes unique-constraint violations from both drivers.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

const proposalColumns = "partition_key, id, proposed_by, team, channel, name, part, url, notes, planned_in, complete, version"

type sqlProposals struct{ s *SQL }

func (q sqlProposals) scan(row interface{ Scan(...any) error }) (models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(&p.Partition, &p.ID, &p.ProposedBy, &p.Team, &p.Channel,
		&p.Name, &p.Part, &p.URL, &p.Notes, &p.PlannedIn, &p.Complete, &p.Version)
	return p, err
}

func (q sqlProposals) Get(ctx context.Context, partition, id string) (models.Proposal, error) {
	row := q.s.db.QueryRowContext(ctx, `
		SELECT `+proposalColumns+` FROM proposal WHERE partition_key = $1 AND id = $2
	`, partition, id)

	p, err := q.scan(row)
	if err == sql.ErrNoRows {
		return models.Proposal{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

func (q sqlProposals) ListByPartition(ctx context.Context, partition string) ([]models.Proposal, error) {
	rows, err := q.s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+` FROM proposal WHERE partition_key = $1 ORDER BY id
	`, partition)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []models.Proposal
	for rows.Next() {
		p, err := q.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q sqlProposals) Insert(ctx context.Context, p models.Proposal) (models.Proposal, error) {
	p.Version = 1
	_, err := q.s.db.ExecContext(ctx, `
		INSERT INTO proposal (`+proposalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, p.Partition, p.ID, p.ProposedBy, p.Team, p.Channel,
		p.Name, p.Part, p.URL, p.Notes, p.PlannedIn, p.Complete, p.Version)

	if isDuplicate(err) {
		return models.Proposal{}, fault.ErrAlreadyExists
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("insert proposal: %w", err)
	}
	return p, nil
}

func (q sqlProposals) Replace(ctx context.Context, p models.Proposal) (models.Proposal, error) {
	res, err := q.s.db.ExecContext(ctx, `
		UPDATE proposal
		SET proposed_by = $1, team = $2, channel = $3, name = $4, part = $5,
		    url = $6, notes = $7, planned_in = $8, complete = $9, version = version + 1
		WHERE partition_key = $10 AND id = $11 AND version = $12
	`, p.ProposedBy, p.Team, p.Channel, p.Name, p.Part,
		p.URL, p.Notes, p.PlannedIn, p.Complete, p.Partition, p.ID, p.Version)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("replace proposal: %w", err)
	}

	if err := q.s.checkWrite(ctx, res, "proposal", p.Partition, p.ID); err != nil {
		return models.Proposal{}, err
	}
	p.Version++
	return p, nil
}

func (q sqlProposals) Delete(ctx context.Context, p models.Proposal) error {
	res, err := q.s.db.ExecContext(ctx, `
		DELETE FROM proposal WHERE partition_key = $1 AND id = $2 AND version = $3
	`, p.Partition, p.ID, p.Version)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return q.s.checkWrite(ctx, res, "proposal", p.Partition, p.ID)
}

const planColumns = "partition_key, id, created_by, team, channel, date, owner, video, version"

type sqlPlans struct{ s *SQL }

func (q sqlPlans) scan(row interface{ Scan(...any) error }) (models.Plan, error) {
	var p models.Plan
	var date string
	err := row.Scan(&p.Partition, &p.ID, &p.CreatedBy, &p.Team, &p.Channel,
		&date, &p.Owner, &p.Video, &p.Version)
	if err != nil {
		return models.Plan{}, err
	}
	p.Date, err = time.ParseInLocation(models.DateOnly, date, q.s.loc)
	return p, err
}

func (q sqlPlans) Get(ctx context.Context, partition, id string) (models.Plan, error) {
	row := q.s.db.QueryRowContext(ctx, `
		SELECT `+planColumns+` FROM plan WHERE partition_key = $1 AND id = $2
	`, partition, id)

	p, err := q.scan(row)
	if err == sql.ErrNoRows {
		return models.Plan{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (q sqlPlans) list(ctx context.Context, where string, args ...any) ([]models.Plan, error) {
	rows, err := q.s.db.QueryContext(ctx, `
		SELECT `+planColumns+` FROM plan WHERE `+where+` ORDER BY date, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []models.Plan
	for rows.Next() {
		p, err := q.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q sqlPlans) ListByPartition(ctx context.Context, partition string) ([]models.Plan, error) {
	return q.list(ctx, "partition_key = $1", partition)
}

func (q sqlPlans) ListForDate(ctx context.Context, date time.Time) ([]models.Plan, error) {
	return q.list(ctx, "date = $1", date.Format(models.DateOnly))
}

func (q sqlPlans) ListBetween(ctx context.Context, from, to time.Time) ([]models.Plan, error) {
	return q.list(ctx, "date >= $1 AND date <= $2",
		from.Format(models.DateOnly), to.Format(models.DateOnly))
}

func (q sqlPlans) Insert(ctx context.Context, p models.Plan) (models.Plan, error) {
	p.Version = 1
	_, err := q.s.db.ExecContext(ctx, `
		INSERT INTO plan (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.Partition, p.ID, p.CreatedBy, p.Team, p.Channel,
		p.Date.Format(models.DateOnly), p.Owner, p.Video, p.Version)

	if isDuplicate(err) {
		return models.Plan{}, fault.ErrAlreadyExists
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("insert plan: %w", err)
	}
	return p, nil
}

func (q sqlPlans) Replace(ctx context.Context, p models.Plan) (models.Plan, error) {
	res, err := q.s.db.ExecContext(ctx, `
		UPDATE plan
		SET created_by = $1, team = $2, channel = $3, date = $4, owner = $5,
		    video = $6, version = version + 1
		WHERE partition_key = $7 AND id = $8 AND version = $9
	`, p.CreatedBy, p.Team, p.Channel, p.Date.Format(models.DateOnly), p.Owner,
		p.Video, p.Partition, p.ID, p.Version)
	if err != nil {
		return models.Plan{}, fmt.Errorf("replace plan: %w", err)
	}

	if err := q.s.checkWrite(ctx, res, "plan", p.Partition, p.ID); err != nil {
		return models.Plan{}, err
	}
	p.Version++
	return p, nil
}

func (q sqlPlans) Delete(ctx context.Context, p models.Plan) error {
	res, err := q.s.db.ExecContext(ctx, `
		DELETE FROM plan WHERE partition_key = $1 AND id = $2 AND version = $3
	`, p.Partition, p.ID, p.Version)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return q.s.checkWrite(ctx, res, "plan", p.Partition, p.ID)
}

type sqlVotes struct{ s *SQL }

func (q sqlVotes) Get(ctx context.Context, partition, userID string) (models.Vote, error) {
	var v models.Vote
	err := q.s.db.QueryRowContext(ctx, `
		SELECT partition_key, user_id, rank1, rank2, rank3
		FROM vote WHERE partition_key = $1 AND user_id = $2
	`, partition, userID).Scan(&v.Partition, &v.UserID, &v.Rank1, &v.Rank2, &v.Rank3)

	if err == sql.ErrNoRows {
		return models.Vote{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("get vote: %w", err)
	}
	return v, nil
}

func (q sqlVotes) ListByPartition(ctx context.Context, partition string) ([]models.Vote, error) {
	rows, err := q.s.db.QueryContext(ctx, `
		SELECT partition_key, user_id, rank1, rank2, rank3
		FROM vote WHERE partition_key = $1 ORDER BY user_id
	`, partition)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var out []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.Partition, &v.UserID, &v.Rank1, &v.Rank2, &v.Rank3); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (q sqlVotes) Upsert(ctx context.Context, v models.Vote) error {
	_, err := q.s.db.ExecContext(ctx, `
		INSERT INTO vote (partition_key, user_id, rank1, rank2, rank3)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (partition_key, user_id)
		DO UPDATE SET rank1 = excluded.rank1, rank2 = excluded.rank2, rank3 = excluded.rank3
	`, v.Partition, v.UserID, v.Rank1, v.Rank2, v.Rank3)
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

type sqlTeams struct{ s *SQL }

func (q sqlTeams) Get(ctx context.Context, id string) (models.Team, error) {
	var t models.Team
	err := q.s.db.QueryRowContext(ctx, `
		SELECT id, access_token FROM team WHERE id = $1
	`, id).Scan(&t.ID, &t.AccessToken)

	if err == sql.ErrNoRows {
		return models.Team{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Team{}, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

func (q sqlTeams) Upsert(ctx context.Context, t models.Team) error {
	_, err := q.s.db.ExecContext(ctx, `
		INSERT INTO team (id, access_token) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET access_token = excluded.access_token
	`, t.ID, t.AccessToken)
	if err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

// checkWrite distinguishes a version conflict from a missing row after a
// conditional UPDATE or DELETE touched zero rows.
func (s *SQL) checkWrite(ctx context.Context, res sql.Result, table, partition, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE partition_key = $1 AND id = $2)`,
		partition, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if exists {
		return fault.ErrVersionConflict
	}
	return fault.ErrNotFound
}
