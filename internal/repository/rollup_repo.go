package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/jmoiron/sqlx"
)

// RollupRepository is the rollup store: one row per calendar date with the
// derived daily aggregates. The rollup maintainer is its only writer; every
// other collaborator reads.
type RollupRepository struct {
	db *sqlx.DB
}

// NewRollupRepository creates a RollupRepository.
func NewRollupRepository(db *sqlx.DB) *RollupRepository {
	return &RollupRepository{db: db}
}

// Lock serializes same-date recomputations inside tx. It makes sure the
// rollup row exists (a freshly appended first pick has none yet), then takes
// a row-level lock on it so that two transactions recomputing the same date
// cannot both read the ledger before either has committed. Distinct dates
// never contend.
//
// SQLite has no FOR UPDATE; its single-writer transaction lock already gives
// the same serialization, so the clause is only emitted on PostgreSQL.
func (r *RollupRepository) Lock(ctx context.Context, tx *sqlx.Tx, date time.Time) error {
	day := domain.NormalizeDate(date)

	ensure := tx.Rebind(`
		INSERT INTO daily_rollups (stat_date, computed_at)
		VALUES (?, ?)
		ON CONFLICT (stat_date) DO NOTHING`)
	if _, err := tx.ExecContext(ctx, ensure, day, time.Now().UTC()); err != nil {
		return fmt.Errorf("rollup_repo.Lock: ensure row: %w", err)
	}

	query := `SELECT stat_date FROM daily_rollups WHERE stat_date = ?`
	if r.db.DriverName() != "sqlite" {
		query += ` FOR UPDATE`
	}
	var locked time.Time
	if err := tx.QueryRowxContext(ctx, tx.Rebind(query), day).Scan(&locked); err != nil {
		return fmt.Errorf("rollup_repo.Lock: acquire: %w", err)
	}
	return nil
}

// Upsert replaces the full rollup row for its date — insert when absent,
// overwrite every derived column when present. Never patches single fields;
// whole-row replacement is what keeps recomputation idempotent.
func (r *RollupRepository) Upsert(ctx context.Context, tx *sqlx.Tx, agg *domain.DailyRollup) error {
	query := tx.Rebind(`
		INSERT INTO daily_rollups
			(stat_date, total_picks, won_count, lost_count, pending_count,
			 total_staked, total_returned, net_profit, win_rate, roi, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (stat_date) DO UPDATE SET
			total_picks    = excluded.total_picks,
			won_count      = excluded.won_count,
			lost_count     = excluded.lost_count,
			pending_count  = excluded.pending_count,
			total_staked   = excluded.total_staked,
			total_returned = excluded.total_returned,
			net_profit     = excluded.net_profit,
			win_rate       = excluded.win_rate,
			roi            = excluded.roi,
			computed_at    = excluded.computed_at`)
	_, err := tx.ExecContext(ctx, query,
		agg.StatDate, agg.TotalPicks, agg.WonCount, agg.LostCount, agg.PendingCount,
		agg.TotalStaked, agg.TotalReturned, agg.NetProfit, agg.WinRate, agg.ROI, agg.ComputedAt)
	if err != nil {
		return fmt.Errorf("rollup_repo.Upsert: %w", err)
	}
	return nil
}

// Get fetches the rollup row for a date.
func (r *RollupRepository) Get(ctx context.Context, date time.Time) (*domain.DailyRollup, error) {
	var agg domain.DailyRollup
	query := r.db.Rebind(`SELECT * FROM daily_rollups WHERE stat_date = ?`)
	if err := r.db.GetContext(ctx, &agg, query, domain.NormalizeDate(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRollupNotFound
		}
		return nil, fmt.Errorf("rollup_repo.Get: %w", err)
	}
	return &agg, nil
}

// GetRange returns all rollup rows with start ≤ date ≤ end, ascending.
func (r *RollupRepository) GetRange(ctx context.Context, start, end time.Time) ([]*domain.DailyRollup, error) {
	var aggs []*domain.DailyRollup
	query := r.db.Rebind(`
		SELECT * FROM daily_rollups
		WHERE stat_date >= ? AND stat_date <= ?
		ORDER BY stat_date ASC`)
	err := r.db.SelectContext(ctx, &aggs, query,
		domain.NormalizeDate(start), domain.NormalizeDate(end))
	if err != nil {
		return nil, fmt.Errorf("rollup_repo.GetRange: %w", err)
	}
	return aggs, nil
}
