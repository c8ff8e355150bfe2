package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/courtside/pickledger/internal/repository"
	"github.com/jmoiron/sqlx"
)

// RollupService is the rollup maintainer: it recomputes one date's aggregate
// row in full from the ledger. It never runs on its own schedule — the ledger
// service invokes it synchronously inside every write transaction that
// touches a daily pick, so ledger and rollup commit (or roll back) together.
type RollupService struct {
	wagerRepo  *repository.WagerRepository
	rollupRepo *repository.RollupRepository
}

// NewRollupService builds a RollupService.
func NewRollupService(wagerRepo *repository.WagerRepository, rollupRepo *repository.RollupRepository) *RollupService {
	return &RollupService{
		wagerRepo:  wagerRepo,
		rollupRepo: rollupRepo,
	}
}

// Recompute rebuilds the rollup row for date from scratch inside tx:
//
//  1. Lock the date's rollup row (serializes concurrent same-date recomputes).
//  2. Read every daily-pick wager for the date through the transaction.
//  3. Aggregate counts, stakes, returns, net profit, win rate and ROI.
//  4. Upsert the full row with a fresh compute timestamp.
//
// The full re-read is deliberate: it makes the rollup a pure function of the
// ledger subset and re-running with an unchanged ledger a no-op. An
// incremental-delta version would need differential testing against this one
// before it could replace it.
func (s *RollupService) Recompute(ctx context.Context, tx *sqlx.Tx, date time.Time) error {
	day := domain.NormalizeDate(date)

	if err := s.rollupRepo.Lock(ctx, tx, day); err != nil {
		return fmt.Errorf("rollup_service.Recompute: lock %s: %w", day.Format(domain.DateLayout), err)
	}

	picks, err := s.wagerRepo.ListByDate(ctx, tx, day, true)
	if err != nil {
		return fmt.Errorf("rollup_service.Recompute: fetch picks %s: %w", day.Format(domain.DateLayout), err)
	}

	agg := domain.AggregateDaily(day, picks, time.Now().UTC())

	if err := s.rollupRepo.Upsert(ctx, tx, agg); err != nil {
		return fmt.Errorf("rollup_service.Recompute: upsert %s: %w", day.Format(domain.DateLayout), err)
	}
	return nil
}
