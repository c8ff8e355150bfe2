package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// DateLayout is the calendar-date format used across the API and storage layer.
const DateLayout = "2006-01-02"

// Correctness is the tri-state outcome of a wager. A wager stays pending until
// the real-world event resolves; the transition to won/lost happens exactly once.
type Correctness string

const (
	CorrectnessPending Correctness = "pending" // event not yet resolved
	CorrectnessWon     Correctness = "won"     // predicted outcome matched
	CorrectnessLost    Correctness = "lost"    // predicted outcome missed
)

// IsValid reports whether c is one of the three known states.
func (c Correctness) IsValid() bool {
	switch c {
	case CorrectnessPending, CorrectnessWon, CorrectnessLost:
		return true
	}
	return false
}

// WagerStatus represents the lifecycle state of a wager row.
type WagerStatus string

const (
	WagerStatusPending   WagerStatus = "pending"   // awaiting event result
	WagerStatusCompleted WagerStatus = "completed" // settled with a result
	WagerStatusVoid      WagerStatus = "void"      // event cancelled; never settled
)

// ──────────────────────────────────────────────────────────────────────────────
// WagerRecord
// ──────────────────────────────────────────────────────────────────────────────

// WagerRecord is a single ledger row: one AI-generated pick backed by a stake.
// Rows are append-and-settle — they are created once, settled at most once,
// and never deleted, so every daily rollup can be recomputed exactly from the
// ledger at any time.
type WagerRecord struct {
	ID               int64           `json:"id"                db:"id"`
	HomeTeam         string          `json:"home_team"         db:"home_team"`
	AwayTeam         string          `json:"away_team"         db:"away_team"`
	Sport            string          `json:"sport"             db:"sport"`
	EventDate        time.Time       `json:"event_date"        db:"event_date"`
	PredictedOutcome string          `json:"predicted_outcome" db:"predicted_outcome"`
	Confidence       float64         `json:"confidence"        db:"confidence"`
	Analysis         json.RawMessage `json:"analysis"          db:"analysis"`
	RawData          json.RawMessage `json:"raw_data"          db:"raw_data"`
	ActualOutcome    *string         `json:"actual_outcome"    db:"actual_outcome"`
	Correctness      Correctness     `json:"correctness"       db:"correctness"`
	IsDailyPick      bool            `json:"is_daily_pick"     db:"is_daily_pick"`
	PickRank         int             `json:"pick_rank"         db:"pick_rank"`
	Stake            decimal.Decimal `json:"stake"             db:"stake"`
	Status           WagerStatus     `json:"status"            db:"status"`
	CreatedAt        time.Time       `json:"created_at"        db:"created_at"`
	SettledAt        *time.Time      `json:"settled_at"        db:"settled_at"`
}

// IsSettled reports whether the wager has left the pending state.
func (w *WagerRecord) IsSettled() bool {
	return w.Correctness != CorrectnessPending
}

// ──────────────────────────────────────────────────────────────────────────────
// AppendWagerRequest — value object used by LedgerService
// ──────────────────────────────────────────────────────────────────────────────

// AppendWagerRequest carries the inputs for appending a new wager to the ledger.
type AppendWagerRequest struct {
	HomeTeam         string
	AwayTeam         string
	Sport            string
	EventDate        time.Time
	PredictedOutcome string
	Confidence       float64
	Analysis         json.RawMessage
	RawData          json.RawMessage
	IsDailyPick      bool
	PickRank         int
	Stake            decimal.Decimal
}

// Validate checks the request against the ledger invariants. Every violation
// is returned wrapped in ErrValidation so callers can classify it uniformly.
func (r *AppendWagerRequest) Validate() error {
	if strings.TrimSpace(r.HomeTeam) == "" {
		return fmt.Errorf("%w: home_team is required", ErrValidation)
	}
	if strings.TrimSpace(r.AwayTeam) == "" {
		return fmt.Errorf("%w: away_team is required", ErrValidation)
	}
	if strings.TrimSpace(r.Sport) == "" {
		return fmt.Errorf("%w: sport is required", ErrValidation)
	}
	if r.EventDate.IsZero() {
		return fmt.Errorf("%w: event_date is required", ErrValidation)
	}
	if strings.TrimSpace(r.PredictedOutcome) == "" {
		return fmt.Errorf("%w: predicted_outcome is required", ErrValidation)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0.0 and 1.0", ErrValidation)
	}
	if !r.Stake.IsPositive() {
		return fmt.Errorf("%w: stake must be a positive amount", ErrValidation)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// NormalizeDate truncates t to a calendar date at midnight UTC. Every date
// stored or compared by the ledger goes through this so that equality on
// event_date is exact regardless of the caller's clock or zone.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date ("2006-01-02").
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, s)
	}
	return t, nil
}

// DeriveCorrectness maps a settlement result onto the tri-state flag:
// won iff the actual outcome equals the predicted outcome. Labels are
// compared case-insensitively with surrounding whitespace ignored, matching
// how the result tracker normalizes winner names.
func DeriveCorrectness(predicted, actual string) Correctness {
	p := strings.ToLower(strings.TrimSpace(predicted))
	a := strings.ToLower(strings.TrimSpace(actual))
	if p == a {
		return CorrectnessWon
	}
	return CorrectnessLost
}
