package domain_test

import (
	"testing"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func pick(stake int64, c domain.Correctness) *domain.WagerRecord {
	return &domain.WagerRecord{
		EventDate:   date("2025-07-01"),
		Correctness: c,
		IsDailyPick: true,
		Stake:       decimal.NewFromInt(stake),
	}
}

// TestFixedOddsPayout validates the −110 fixed-odds payout model. No I/O —
// pure arithmetic.
//
//	stake 100, won  → return 191, net +91
//	stake 100, lost → return 0,   net −100
//	stake 100, pending → return 0, net 0
func TestFixedOddsPayout(t *testing.T) {
	stake := decimal.NewFromInt(100)

	if got, want := domain.Payout(stake, domain.CorrectnessWon), decimal.NewFromInt(191); !got.Equal(want) {
		t.Errorf("Payout(100, won) = %s, want %s", got, want)
	}
	if got := domain.Payout(stake, domain.CorrectnessLost); !got.IsZero() {
		t.Errorf("Payout(100, lost) = %s, want 0", got)
	}
	if got := domain.Payout(stake, domain.CorrectnessPending); !got.IsZero() {
		t.Errorf("Payout(100, pending) = %s, want 0", got)
	}

	if got, want := domain.NetContribution(stake, domain.CorrectnessWon), decimal.NewFromInt(91); !got.Equal(want) {
		t.Errorf("NetContribution(100, won) = %s, want %s", got, want)
	}
	if got, want := domain.NetContribution(stake, domain.CorrectnessLost), decimal.NewFromInt(-100); !got.Equal(want) {
		t.Errorf("NetContribution(100, lost) = %s, want %s", got, want)
	}
	if got := domain.NetContribution(stake, domain.CorrectnessPending); !got.IsZero() {
		t.Errorf("NetContribution(100, pending) = %s, want 0", got)
	}
}

// TestAggregateDaily_SingleWin: one flagged pick, stake 100, settled won.
//
//	total=1 won=1 staked=100 netProfit=91.00 winRate=100.00 roi=91.00
func TestAggregateDaily_SingleWin(t *testing.T) {
	agg := domain.AggregateDaily(date("2025-07-01"),
		[]*domain.WagerRecord{pick(100, domain.CorrectnessWon)}, time.Now())

	if agg.TotalPicks != 1 || agg.WonCount != 1 || agg.LostCount != 0 || agg.PendingCount != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want 1/1/0/0",
			agg.TotalPicks, agg.WonCount, agg.LostCount, agg.PendingCount)
	}
	if want := decimal.NewFromInt(100); !agg.TotalStaked.Equal(want) {
		t.Errorf("totalStaked = %s, want %s", agg.TotalStaked, want)
	}
	if want := decimal.NewFromInt(191); !agg.TotalReturned.Equal(want) {
		t.Errorf("totalReturned = %s, want %s", agg.TotalReturned, want)
	}
	if want := decimal.NewFromInt(91); !agg.NetProfit.Equal(want) {
		t.Errorf("netProfit = %s, want %s", agg.NetProfit, want)
	}
	if want := decimal.NewFromInt(100); !agg.WinRate.Equal(want) {
		t.Errorf("winRate = %s, want %s", agg.WinRate, want)
	}
	if want := decimal.NewFromInt(91); !agg.ROI.Equal(want) {
		t.Errorf("roi = %s, want %s", agg.ROI, want)
	}
}

// TestAggregateDaily_MixedDay: stakes 100 (won) and 50 (lost).
//
//	totalStaked = 150
//	netProfit   = 91 − 50 = 41.00
//	winRate     = 1/2 × 100 = 50.00
//	roi         = 41/150 × 100 = 27.33  (rounded to 2 dp)
func TestAggregateDaily_MixedDay(t *testing.T) {
	agg := domain.AggregateDaily(date("2025-07-01"), []*domain.WagerRecord{
		pick(100, domain.CorrectnessWon),
		pick(50, domain.CorrectnessLost),
	}, time.Now())

	if agg.TotalPicks != 2 {
		t.Errorf("total = %d, want 2", agg.TotalPicks)
	}
	if want := decimal.NewFromInt(150); !agg.TotalStaked.Equal(want) {
		t.Errorf("totalStaked = %s, want %s", agg.TotalStaked, want)
	}
	if want := decimal.NewFromInt(41); !agg.NetProfit.Equal(want) {
		t.Errorf("netProfit = %s, want %s", agg.NetProfit, want)
	}
	if want := decimal.NewFromInt(50); !agg.WinRate.Equal(want) {
		t.Errorf("winRate = %s, want %s", agg.WinRate, want)
	}
	if want := decimal.NewFromFloat(27.33); !agg.ROI.Equal(want) {
		t.Errorf("roi = %s, want %s", agg.ROI, want)
	}
}

// TestAggregateDaily_AllPending: an unresolved day reports 0 win rate and
// 0 ROI — pending picks never inflate the denominator.
func TestAggregateDaily_AllPending(t *testing.T) {
	agg := domain.AggregateDaily(date("2025-07-01"),
		[]*domain.WagerRecord{pick(100, domain.CorrectnessPending)}, time.Now())

	if agg.PendingCount != 1 {
		t.Errorf("pending = %d, want 1", agg.PendingCount)
	}
	if !agg.WinRate.IsZero() {
		t.Errorf("winRate = %s, want 0 (nothing resolved)", agg.WinRate)
	}
	if !agg.ROI.IsZero() {
		t.Errorf("roi = %s, want 0 (no profit yet)", agg.ROI)
	}
	if !agg.NetProfit.IsZero() {
		t.Errorf("netProfit = %s, want 0", agg.NetProfit)
	}
}

// TestAggregateDaily_Idempotent: aggregating the same ledger subset twice
// yields identical values — only the compute timestamp may differ.
func TestAggregateDaily_Idempotent(t *testing.T) {
	wagers := []*domain.WagerRecord{
		pick(100, domain.CorrectnessWon),
		pick(75, domain.CorrectnessLost),
		pick(30, domain.CorrectnessPending),
	}
	first := domain.AggregateDaily(date("2025-07-01"), wagers, time.Now())
	second := domain.AggregateDaily(date("2025-07-01"), wagers, time.Now().Add(time.Hour))

	if !first.Equal(second) {
		t.Errorf("recompute not idempotent:\n first = %+v\nsecond = %+v", first, second)
	}
}

// TestAggregateDaily_EmptyDay: no flagged picks → an all-zero aggregate.
// The maintainer is never invoked for such dates, but the function itself
// must still be total.
func TestAggregateDaily_EmptyDay(t *testing.T) {
	agg := domain.AggregateDaily(date("2025-07-01"), nil, time.Now())
	if agg.TotalPicks != 0 || !agg.TotalStaked.IsZero() || !agg.ROI.IsZero() {
		t.Errorf("empty day aggregate not zero: %+v", agg)
	}
}
