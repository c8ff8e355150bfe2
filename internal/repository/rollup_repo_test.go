package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/courtside/pickledger/internal/domain"
	"github.com/courtside/pickledger/internal/repository"
	"github.com/courtside/pickledger/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleRollup(day time.Time) *domain.DailyRollup {
	return &domain.DailyRollup{
		StatDate:      day,
		TotalPicks:    2,
		WonCount:      1,
		LostCount:     1,
		TotalStaked:   decimal.NewFromInt(150),
		TotalReturned: decimal.NewFromInt(191),
		NetProfit:     decimal.NewFromInt(41),
		WinRate:       decimal.NewFromInt(50),
		ROI:           decimal.NewFromFloat(27.33),
		ComputedAt:    time.Now().UTC(),
	}
}

func TestRollupRepo_LockCreatesRow(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewRollupRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	inTx(t, db, func(tx *sqlx.Tx) error {
		return repo.Lock(ctx, tx, day)
	})

	// The stub row exists with zeroed aggregates; a second Lock is a no-op.
	got, err := repo.Get(ctx, day)
	require.NoError(t, err)
	require.Equal(t, 0, got.TotalPicks)
	require.True(t, got.StatDate.Equal(day))

	inTx(t, db, func(tx *sqlx.Tx) error {
		return repo.Lock(ctx, tx, day)
	})
}

func TestRollupRepo_UpsertReplacesWholeRow(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewRollupRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	inTx(t, db, func(tx *sqlx.Tx) error {
		return repo.Upsert(ctx, tx, sampleRollup(day))
	})

	// Overwrite with a smaller aggregate — every derived column must follow,
	// none may retain its previous value.
	shrunk := &domain.DailyRollup{
		StatDate:      day,
		TotalPicks:    1,
		WonCount:      1,
		TotalStaked:   decimal.NewFromInt(100),
		TotalReturned: decimal.NewFromInt(191),
		NetProfit:     decimal.NewFromInt(91),
		WinRate:       decimal.NewFromInt(100),
		ROI:           decimal.NewFromInt(91),
		ComputedAt:    time.Now().UTC(),
	}
	inTx(t, db, func(tx *sqlx.Tx) error {
		return repo.Upsert(ctx, tx, shrunk)
	})

	got, err := repo.Get(ctx, day)
	require.NoError(t, err)
	require.True(t, got.Equal(shrunk), "stored = %+v, want %+v", got, shrunk)
}

func TestRollupRepo_GetNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewRollupRepository(db)

	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Get(context.Background(), day)
	require.ErrorIs(t, err, domain.ErrRollupNotFound)
}

func TestRollupRepo_GetRange(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewRollupRepository(db)
	ctx := context.Background()
	day1 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 9)

	inTx(t, db, func(tx *sqlx.Tx) error {
		for _, d := range []time.Time{day3, day1, day2} {
			if err := repo.Upsert(ctx, tx, sampleRollup(d)); err != nil {
				return err
			}
		}
		return nil
	})

	got, err := repo.GetRange(ctx, day1, day2)
	require.NoError(t, err)
	require.Len(t, got, 2, "day3 is outside the range")
	require.True(t, got[0].StatDate.Equal(day1))
	require.True(t, got[1].StatDate.Equal(day2))
}
