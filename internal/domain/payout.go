package domain

import "github.com/shopspring/decimal"

// WinPayoutMultiplier is the fixed-odds return multiplier applied to a won
// stake. The default 1.91 models a standard −110 American line: risk 1.10
// units to win 1.00, stake returned on a win. It is a package variable rather
// than a literal so deployments can override it from configuration; a future
// per-wager odds column can replace it without touching the aggregation.
var WinPayoutMultiplier = decimal.NewFromFloat(1.91)

// Payout returns the realized return for a stake under the fixed-odds model.
//
//	pending → 0   (unresolved; excluded from returns until settled)
//	won     → stake × WinPayoutMultiplier
//	lost    → 0   (the stake is gone; the loss shows up in NetContribution)
func Payout(stake decimal.Decimal, c Correctness) decimal.Decimal {
	if c == CorrectnessWon {
		return stake.Mul(WinPayoutMultiplier)
	}
	return decimal.Zero
}

// NetContribution returns the profit-and-loss a single wager contributes to
// its day: won → stake × (multiplier − 1), lost → −stake, pending → 0.
func NetContribution(stake decimal.Decimal, c Correctness) decimal.Decimal {
	switch c {
	case CorrectnessWon:
		return stake.Mul(WinPayoutMultiplier.Sub(decimal.NewFromInt(1)))
	case CorrectnessLost:
		return stake.Neg()
	default:
		return decimal.Zero
	}
}
