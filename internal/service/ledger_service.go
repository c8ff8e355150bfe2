package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/courtside/pickledger/internal/repository"
	"github.com/jmoiron/sqlx"
)

// LedgerService orchestrates the two mutating operations of the ledger:
// appending a wager and settling its outcome. Each call is one atomic unit of
// work — ledger mutation and rollup recomputation happen inside a single
// transaction, so readers only ever see a consistent (ledger, rollup) pair.
type LedgerService struct {
	db        *sqlx.DB
	wagerRepo *repository.WagerRepository
	rollupSvc *RollupService
	log       *slog.Logger
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(db *sqlx.DB, wagerRepo *repository.WagerRepository, rollupSvc *RollupService, log *slog.Logger) *LedgerService {
	if log == nil {
		log = slog.Default()
	}
	return &LedgerService{
		db:        db,
		wagerRepo: wagerRepo,
		rollupSvc: rollupSvc,
		log:       log,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────────────────────────────────────

// Append validates the request, inserts the wager with correctness=pending
// and — when the wager is a daily pick — recomputes that date's rollup, all
// inside one transaction. A failed recompute aborts the insert: there is no
// "ledger committed, rollup pending" state.
func (s *LedgerService) Append(ctx context.Context, req domain.AppendWagerRequest) (*domain.WagerRecord, error) {
	// ── 1. Input validation (before any mutation) ────────────────────────────
	if err := req.Validate(); err != nil {
		return nil, err
	}

	w := &domain.WagerRecord{
		HomeTeam:         req.HomeTeam,
		AwayTeam:         req.AwayTeam,
		Sport:            req.Sport,
		EventDate:        domain.NormalizeDate(req.EventDate),
		PredictedOutcome: req.PredictedOutcome,
		Confidence:       req.Confidence,
		Analysis:         req.Analysis,
		RawData:          req.RawData,
		Correctness:      domain.CorrectnessPending,
		IsDailyPick:      req.IsDailyPick,
		PickRank:         req.PickRank,
		Stake:            req.Stake,
		Status:           domain.WagerStatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	// ── 2. Begin transaction ─────────────────────────────────────────────────
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger_service.Append: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// ── 3. Persist the wager ─────────────────────────────────────────────────
	if err = s.wagerRepo.Create(ctx, tx, w); err != nil {
		return nil, fmt.Errorf("ledger_service.Append: create: %w", err)
	}

	// ── 4. Keep the rollup consistent (daily picks only) ─────────────────────
	if w.IsDailyPick {
		if rErr := s.rollupSvc.Recompute(ctx, tx, w.EventDate); rErr != nil {
			err = errors.Join(domain.ErrConsistency, rErr)
			return nil, fmt.Errorf("ledger_service.Append: %w", err)
		}
	}

	// ── 5. Commit ────────────────────────────────────────────────────────────
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("ledger_service.Append: commit: %w", err)
	}

	s.log.Info("wager appended",
		"id", w.ID,
		"event_date", w.EventDate.Format(domain.DateLayout),
		"sport", w.Sport,
		"daily_pick", w.IsDailyPick,
		"stake", w.Stake.StringFixed(2))
	return w, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// SettleOutcome
// ──────────────────────────────────────────────────────────────────────────────

// SettleOutcome records the real-world result of a wager exactly once:
// correctness is derived from the predicted outcome, the row moves to
// completed, and the affected date's rollup is recomputed in the same
// transaction when the wager is a daily pick.
//
// Returns ErrWagerNotFound for an unknown id and ErrAlreadySettled when the
// wager has already left the pending state — including when two settlements
// race: the guarded update lets exactly one through.
func (s *LedgerService) SettleOutcome(ctx context.Context, id int64, actualOutcome string) (*domain.WagerRecord, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger_service.SettleOutcome: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// ── 1. Load and verify the wager ─────────────────────────────────────────
	w, err := s.wagerRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w.IsSettled() || w.Status == domain.WagerStatusVoid {
		s.log.Warn("duplicate settlement attempt", "id", id, "correctness", w.Correctness, "status", w.Status)
		err = domain.ErrAlreadySettled
		return nil, err
	}

	// ── 2. Write-once settlement ─────────────────────────────────────────────
	correctness := domain.DeriveCorrectness(w.PredictedOutcome, actualOutcome)
	if err = s.wagerRepo.Settle(ctx, tx, id, actualOutcome, correctness); err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			// Lost a race with a concurrent settlement of the same id.
			s.log.Warn("duplicate settlement attempt (concurrent)", "id", id)
		}
		return nil, err
	}

	// ── 3. Keep the rollup consistent (daily picks only) ─────────────────────
	if w.IsDailyPick {
		if rErr := s.rollupSvc.Recompute(ctx, tx, w.EventDate); rErr != nil {
			err = errors.Join(domain.ErrConsistency, rErr)
			return nil, fmt.Errorf("ledger_service.SettleOutcome: %w", err)
		}
	}

	// ── 4. Reload the settled row, then commit ───────────────────────────────
	settled, err := s.wagerRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("ledger_service.SettleOutcome: reload: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("ledger_service.SettleOutcome: commit: %w", err)
	}

	s.log.Info("wager settled",
		"id", id,
		"event_date", settled.EventDate.Format(domain.DateLayout),
		"correctness", settled.Correctness)
	return settled, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// VoidWager
// ──────────────────────────────────────────────────────────────────────────────

// VoidWager marks a wager void when its event is cancelled. Void is terminal:
// only a still-pending wager can be voided, and a voided wager can never be
// settled. Correctness stays pending — voided daily picks keep counting as
// pending in their date's rollup, so no recompute is needed here.
func (s *LedgerService) VoidWager(ctx context.Context, id int64) (*domain.WagerRecord, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger_service.VoidWager: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	w, err := s.wagerRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w.IsSettled() || w.Status != domain.WagerStatusPending {
		err = domain.ErrAlreadySettled
		return nil, err
	}

	if err = s.wagerRepo.Void(ctx, tx, id); err != nil {
		return nil, err
	}

	voided, err := s.wagerRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("ledger_service.VoidWager: reload: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("ledger_service.VoidWager: commit: %w", err)
	}

	s.log.Info("wager voided", "id", id,
		"event_date", voided.EventDate.Format(domain.DateLayout))
	return voided, nil
}
