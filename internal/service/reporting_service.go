package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/courtside/pickledger/internal/repository"
	"github.com/shopspring/decimal"
)

// ReportingService serves the read-only side: rollup lookups, range queries
// and ledger listings for dashboards. It never mutates anything.
type ReportingService struct {
	wagerRepo  *repository.WagerRepository
	rollupRepo *repository.RollupRepository
}

// NewReportingService creates a ReportingService.
func NewReportingService(wagerRepo *repository.WagerRepository, rollupRepo *repository.RollupRepository) *ReportingService {
	return &ReportingService{
		wagerRepo:  wagerRepo,
		rollupRepo: rollupRepo,
	}
}

// GetRollup returns the rollup row for a date, or ErrRollupNotFound when the
// date never had a daily pick.
func (s *ReportingService) GetRollup(ctx context.Context, date time.Time) (*domain.DailyRollup, error) {
	agg, err := s.rollupRepo.Get(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("reporting_service.GetRollup: %w", err)
	}
	return agg, nil
}

// GetRollupRange returns every rollup row with start ≤ date ≤ end, ascending.
func (s *ReportingService) GetRollupRange(ctx context.Context, start, end time.Time) ([]*domain.DailyRollup, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrValidation)
	}
	aggs, err := s.rollupRepo.GetRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporting_service.GetRollupRange: %w", err)
	}
	return aggs, nil
}

// GetWager returns a single ledger row by id.
func (s *ReportingService) GetWager(ctx context.Context, id int64) (*domain.WagerRecord, error) {
	w, err := s.wagerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// QueryLedger lists ledger rows for dashboards, filtered and paginated.
func (s *ReportingService) QueryLedger(ctx context.Context, f repository.LedgerFilter) ([]*domain.WagerRecord, error) {
	wagers, err := s.wagerRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporting_service.QueryLedger: %w", err)
	}
	return wagers, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Range summary
// ──────────────────────────────────────────────────────────────────────────────

// RangeSummary condenses the rollup rows of a date range into one aggregate:
// summed counts and amounts, with win rate and ROI recomputed over the whole
// range using the same formulas as a single day.
type RangeSummary struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Days          int             `json:"days"`
	TotalPicks    int             `json:"total_picks"`
	WonCount      int             `json:"won_count"`
	LostCount     int             `json:"lost_count"`
	PendingCount  int             `json:"pending_count"`
	TotalStaked   decimal.Decimal `json:"total_staked"`
	TotalReturned decimal.Decimal `json:"total_returned"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	WinRate       decimal.Decimal `json:"win_rate"`
	ROI           decimal.Decimal `json:"roi"`
}

// Summarize folds a range of rollup rows into a RangeSummary. Days counts
// only dates that actually have a rollup row.
func (s *ReportingService) Summarize(ctx context.Context, start, end time.Time) (*RangeSummary, error) {
	aggs, err := s.GetRollupRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	sum := &RangeSummary{
		StartDate:     domain.NormalizeDate(start),
		EndDate:       domain.NormalizeDate(end),
		TotalStaked:   decimal.Zero,
		TotalReturned: decimal.Zero,
		NetProfit:     decimal.Zero,
		WinRate:       decimal.Zero,
		ROI:           decimal.Zero,
	}
	for _, a := range aggs {
		sum.Days++
		sum.TotalPicks += a.TotalPicks
		sum.WonCount += a.WonCount
		sum.LostCount += a.LostCount
		sum.PendingCount += a.PendingCount
		sum.TotalStaked = sum.TotalStaked.Add(a.TotalStaked)
		sum.TotalReturned = sum.TotalReturned.Add(a.TotalReturned)
		sum.NetProfit = sum.NetProfit.Add(a.NetProfit)
	}

	hundred := decimal.NewFromInt(100)
	if resolved := sum.WonCount + sum.LostCount; resolved > 0 {
		sum.WinRate = decimal.NewFromInt(int64(sum.WonCount)).
			Div(decimal.NewFromInt(int64(resolved))).
			Mul(hundred).Round(2)
	}
	if sum.TotalStaked.IsPositive() {
		sum.ROI = sum.NetProfit.Div(sum.TotalStaked).Mul(hundred).Round(2)
	}
	return sum, nil
}
