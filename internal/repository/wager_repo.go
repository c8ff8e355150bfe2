package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/jmoiron/sqlx"
)

// WagerRepository is the ledger store: all database operations for wager rows.
// It is the only component allowed to mutate the wagers table.
//
// Queries are written with `?` placeholders and passed through Rebind so the
// same repository runs against PostgreSQL in production and SQLite in tests.
type WagerRepository struct {
	db *sqlx.DB
}

// NewWagerRepository creates a WagerRepository.
func NewWagerRepository(db *sqlx.DB) *WagerRepository {
	return &WagerRepository{db: db}
}

// Create appends a new wager inside an existing transaction and fills in its
// assigned id. Correctness starts pending; ids are monotonic and never reused
// (BIGSERIAL / AUTOINCREMENT).
func (r *WagerRepository) Create(ctx context.Context, tx *sqlx.Tx, w *domain.WagerRecord) error {
	query := tx.Rebind(`
		INSERT INTO wagers
			(home_team, away_team, sport, event_date, predicted_outcome, confidence,
			 analysis, raw_data, correctness, is_daily_pick, pick_rank, stake, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := tx.QueryRowxContext(ctx, query,
		w.HomeTeam, w.AwayTeam, w.Sport, w.EventDate, w.PredictedOutcome, w.Confidence,
		w.Analysis, w.RawData, w.Correctness, w.IsDailyPick, w.PickRank, w.Stake, w.Status, w.CreatedAt,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("wager_repo.Create: %w", err)
	}
	return nil
}

// GetByID fetches a wager by its primary key. q may be the root DB or an open
// transaction — settlement reads through its own tx to see a consistent row.
func (r *WagerRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.WagerRecord, error) {
	var w domain.WagerRecord
	query := q.Rebind(`SELECT * FROM wagers WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &w, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWagerNotFound
		}
		return nil, fmt.Errorf("wager_repo.GetByID: %w", err)
	}
	return &w, nil
}

// ListByDate returns all wagers for a calendar date, oldest first. With
// flaggedOnly set it returns only daily picks — the subset the rollup
// maintainer aggregates. Reads through q so an in-flight transaction sees
// its own uncommitted insert.
func (r *WagerRepository) ListByDate(ctx context.Context, q sqlx.ExtContext, date time.Time, flaggedOnly bool) ([]*domain.WagerRecord, error) {
	query := `SELECT * FROM wagers WHERE event_date = ?`
	if flaggedOnly {
		query += ` AND is_daily_pick = ?`
	}
	query += ` ORDER BY id ASC`

	args := []interface{}{domain.NormalizeDate(date)}
	if flaggedOnly {
		args = append(args, true)
	}

	var wagers []*domain.WagerRecord
	if err := sqlx.SelectContext(ctx, q, &wagers, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("wager_repo.ListByDate: %w", err)
	}
	return wagers, nil
}

// Settle marks a wager won or lost inside a transaction. The guarded WHERE
// clause makes settlement write-once: a row whose correctness already left
// pending — or that was voided — is untouched and the caller gets
// ErrAlreadySettled, even when two settlements race on the same id.
func (r *WagerRepository) Settle(ctx context.Context, tx *sqlx.Tx, id int64, actualOutcome string, correctness domain.Correctness) error {
	query := tx.Rebind(`
		UPDATE wagers
		SET actual_outcome = ?,
		    correctness    = ?,
		    status         = ?,
		    settled_at     = ?
		WHERE id = ? AND correctness = ? AND status = ?`)
	res, err := tx.ExecContext(ctx, query,
		actualOutcome, correctness, domain.WagerStatusCompleted, time.Now().UTC(),
		id, domain.CorrectnessPending, domain.WagerStatusPending)
	if err != nil {
		return fmt.Errorf("wager_repo.Settle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAlreadySettled
	}
	return nil
}

// Void marks a wager void (event cancelled) inside a transaction. Void is
// terminal: only a still-pending row can be voided, and a voided row can never
// be settled — the same guarded-update discipline as Settle.
func (r *WagerRepository) Void(ctx context.Context, tx *sqlx.Tx, id int64) error {
	query := tx.Rebind(`
		UPDATE wagers
		SET status = ?
		WHERE id = ? AND correctness = ? AND status = ?`)
	res, err := tx.ExecContext(ctx, query,
		domain.WagerStatusVoid, id, domain.CorrectnessPending, domain.WagerStatusPending)
	if err != nil {
		return fmt.Errorf("wager_repo.Void: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAlreadySettled
	}
	return nil
}

// Get is the non-transactional convenience form of GetByID.
func (r *WagerRepository) Get(ctx context.Context, id int64) (*domain.WagerRecord, error) {
	return r.GetByID(ctx, r.db, id)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporting queries
// ──────────────────────────────────────────────────────────────────────────────

// LedgerFilter narrows a reporting query over the ledger. Zero values mean
// "no filter" for that field.
type LedgerFilter struct {
	Date        *time.Time
	FlaggedOnly bool
	Sport       string
	Status      domain.WagerStatus
	Limit       int
	Offset      int
}

// List returns ledger rows matching the filter, newest first. Read-only;
// used by the reporting service and never inside a write transaction.
func (r *WagerRepository) List(ctx context.Context, f LedgerFilter) ([]*domain.WagerRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Date != nil {
		conds = append(conds, `event_date = ?`)
		args = append(args, domain.NormalizeDate(*f.Date))
	}
	if f.FlaggedOnly {
		conds = append(conds, `is_daily_pick = ?`)
		args = append(args, true)
	}
	if f.Sport != "" {
		conds = append(conds, `sport = ?`)
		args = append(args, f.Sport)
	}
	if f.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, string(f.Status))
	}

	query := `SELECT * FROM wagers`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id DESC`

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	var wagers []*domain.WagerRecord
	if err := r.db.SelectContext(ctx, &wagers, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("wager_repo.List: %w", err)
	}
	return wagers, nil
}
