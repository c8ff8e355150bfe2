package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// DailyRollup
// ──────────────────────────────────────────────────────────────────────────────

// DailyRollup is the materialized per-date aggregate over all daily-pick
// wagers with that event date. Every field except ComputedAt is fully derived
// from the ledger: the row is replaced wholesale on each recompute and is
// never patched field-by-field.
type DailyRollup struct {
	StatDate      time.Time       `json:"stat_date"      db:"stat_date"`
	TotalPicks    int             `json:"total_picks"    db:"total_picks"`
	WonCount      int             `json:"won_count"      db:"won_count"`
	LostCount     int             `json:"lost_count"     db:"lost_count"`
	PendingCount  int             `json:"pending_count"  db:"pending_count"`
	TotalStaked   decimal.Decimal `json:"total_staked"   db:"total_staked"`
	TotalReturned decimal.Decimal `json:"total_returned" db:"total_returned"`
	NetProfit     decimal.Decimal `json:"net_profit"     db:"net_profit"`
	WinRate       decimal.Decimal `json:"win_rate"       db:"win_rate"`
	ROI           decimal.Decimal `json:"roi"            db:"roi"`
	ComputedAt    time.Time       `json:"computed_at"    db:"computed_at"`
}

var oneHundred = decimal.NewFromInt(100)

// AggregateDaily computes the rollup row for date from the full set of
// daily-pick wagers with that event date. It is a pure function of its
// inputs (plus the supplied timestamp), which is what makes recomputation
// idempotent: calling it twice over the same ledger subset yields identical
// aggregate values.
//
// Win rate divides by resolved picks only (won+lost) — a day full of pending
// picks reports 0, not 100. ROI divides net profit by total staked. Both are
// percentages rounded to 2 decimal places.
func AggregateDaily(date time.Time, wagers []*WagerRecord, computedAt time.Time) *DailyRollup {
	agg := &DailyRollup{
		StatDate:      NormalizeDate(date),
		TotalStaked:   decimal.Zero,
		TotalReturned: decimal.Zero,
		NetProfit:     decimal.Zero,
		WinRate:       decimal.Zero,
		ROI:           decimal.Zero,
		ComputedAt:    computedAt,
	}

	for _, w := range wagers {
		agg.TotalPicks++
		switch w.Correctness {
		case CorrectnessWon:
			agg.WonCount++
		case CorrectnessLost:
			agg.LostCount++
		default:
			agg.PendingCount++
		}
		agg.TotalStaked = agg.TotalStaked.Add(w.Stake)
		agg.TotalReturned = agg.TotalReturned.Add(Payout(w.Stake, w.Correctness))
		agg.NetProfit = agg.NetProfit.Add(NetContribution(w.Stake, w.Correctness))
	}

	agg.TotalStaked = agg.TotalStaked.Round(2)
	agg.TotalReturned = agg.TotalReturned.Round(2)
	agg.NetProfit = agg.NetProfit.Round(2)

	resolved := agg.WonCount + agg.LostCount
	if resolved > 0 {
		agg.WinRate = decimal.NewFromInt(int64(agg.WonCount)).
			Div(decimal.NewFromInt(int64(resolved))).
			Mul(oneHundred).
			Round(2)
	}
	if agg.TotalStaked.IsPositive() {
		agg.ROI = agg.NetProfit.Div(agg.TotalStaked).Mul(oneHundred).Round(2)
	}

	return agg
}

// Equal reports whether two rollups carry identical aggregate values,
// ignoring the recompute timestamp. Used to verify recompute idempotence.
func (r *DailyRollup) Equal(other *DailyRollup) bool {
	return r.StatDate.Equal(other.StatDate) &&
		r.TotalPicks == other.TotalPicks &&
		r.WonCount == other.WonCount &&
		r.LostCount == other.LostCount &&
		r.PendingCount == other.PendingCount &&
		r.TotalStaked.Equal(other.TotalStaked) &&
		r.TotalReturned.Equal(other.TotalReturned) &&
		r.NetProfit.Equal(other.NetProfit) &&
		r.WinRate.Equal(other.WinRate) &&
		r.ROI.Equal(other.ROI)
}
