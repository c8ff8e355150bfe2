package domain

import (
	"errors"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors — compare with errors.Is()
// ──────────────────────────────────────────────────────────────────────────────

var (
	// ErrValidation is returned when an append request carries malformed or
	// out-of-range input (non-positive stake, missing teams, bad date).
	// Rejected before any mutation; the caller can correct and retry.
	ErrValidation = errors.New("invalid wager input")

	// ErrWagerNotFound is returned when no wager matches the given id.
	ErrWagerNotFound = errors.New("wager not found")

	// ErrAlreadySettled is returned when settlement is attempted on a wager
	// whose correctness has already left the pending state. Settlement is
	// write-once; a second attempt usually means a duplicate upstream event
	// and must be surfaced, not silently ignored.
	ErrAlreadySettled = errors.New("wager is already settled")

	// ErrRollupNotFound is returned when no rollup row exists for a date —
	// i.e. no daily pick has ever been recorded for it.
	ErrRollupNotFound = errors.New("no rollup for date")

	// ErrConsistency is returned when a rollup recomputation fails inside a
	// ledger write transaction. It is fatal to that transaction: the ledger
	// mutation is rolled back rather than committed with a stale rollup.
	ErrConsistency = errors.New("rollup recomputation failed")
)

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

// IsNotFound returns true when err (or any error in its chain) is one of the
// "entity not found" errors. Use this instead of comparing error values
// directly when translating domain errors to HTTP 404 responses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWagerNotFound) || errors.Is(err, ErrRollupNotFound)
}

// IsConflict returns true for errors that represent a state conflict
// (currently only double settlement).
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadySettled)
}
