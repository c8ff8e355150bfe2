// Package testutil provides an in-process SQLite database for repository and
// service tests. The repositories are written with `?` placeholders and
// Rebind, so the exact same code paths run here as against PostgreSQL.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

func init() {
	// modernc's driver name is not in sqlx's built-in bindvar table.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Schema mirrors migrations/001_init.sql in SQLite dialect. AUTOINCREMENT
// matches BIGSERIAL's guarantee that ids are monotonic and never reused.
const Schema = `
CREATE TABLE IF NOT EXISTS wagers (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    home_team         TEXT    NOT NULL,
    away_team         TEXT    NOT NULL,
    sport             TEXT    NOT NULL,
    event_date        DATE    NOT NULL,
    predicted_outcome TEXT    NOT NULL,
    confidence        REAL    NOT NULL DEFAULT 0,
    analysis          TEXT,
    raw_data          TEXT,
    actual_outcome    TEXT,
    correctness       TEXT    NOT NULL DEFAULT 'pending'
                      CHECK (correctness IN ('pending', 'won', 'lost')),
    is_daily_pick     BOOLEAN NOT NULL DEFAULT 0,
    pick_rank         INTEGER NOT NULL DEFAULT 0,
    stake             NUMERIC NOT NULL,
    status            TEXT    NOT NULL DEFAULT 'pending'
                      CHECK (status IN ('pending', 'completed', 'void')),
    created_at        TIMESTAMP NOT NULL,
    settled_at        TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_wagers_event_date_daily
    ON wagers (event_date, is_daily_pick);

CREATE TABLE IF NOT EXISTS daily_rollups (
    stat_date      DATE PRIMARY KEY,
    total_picks    INTEGER NOT NULL DEFAULT 0,
    won_count      INTEGER NOT NULL DEFAULT 0,
    lost_count     INTEGER NOT NULL DEFAULT 0,
    pending_count  INTEGER NOT NULL DEFAULT 0,
    total_staked   NUMERIC NOT NULL DEFAULT 0,
    total_returned NUMERIC NOT NULL DEFAULT 0,
    net_profit     NUMERIC NOT NULL DEFAULT 0,
    win_rate       NUMERIC NOT NULL DEFAULT 0,
    roi            NUMERIC NOT NULL DEFAULT 0,
    computed_at    TIMESTAMP NOT NULL
);
`

// OpenDB opens a file-backed SQLite database in the test's temp directory,
// applies the schema, and closes it when the test finishes.
//
// MaxOpenConns is pinned to 1: SQLite allows one writer at a time, and a
// single pooled connection makes concurrent test transactions queue instead
// of failing with SQLITE_BUSY — the same serialization the rollup-row lock
// provides on PostgreSQL.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + t.TempDir() + "/ledger.db?_pragma=busy_timeout(10000)"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.MustExec(Schema)

	t.Cleanup(func() { _ = db.Close() })
	return db
}
