package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bankroll (
	id     INTEGER PRIMARY KEY CHECK (id = 1),
	amount INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rounds (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT    NOT NULL UNIQUE,
	started_at     INTEGER NOT NULL,
	settled_at     INTEGER NOT NULL,
	bet            INTEGER NOT NULL,
	outcome        TEXT    NOT NULL,
	delta          INTEGER NOT NULL,
	bankroll_after INTEGER NOT NULL,
	player         TEXT    NOT NULL,
	dealer         TEXT    NOT NULL
);`

// SQLite stores the bankroll in a single-row table and keeps round
// history in a second table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; the engine settles rounds sequentially.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// LoadBankroll reads the single bankroll row, or ErrNotFound if it is
// missing
func (s *SQLite) LoadBankroll(ctx context.Context) (int, error) {
	var amount int
	err := s.db.QueryRowContext(ctx, `SELECT amount FROM bankroll WHERE id = 1`).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read bankroll: %w", err)
	}
	return amount, nil
}

// SaveBankroll upserts the single bankroll row
func (s *SQLite) SaveBankroll(ctx context.Context, amount int) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO bankroll (id, amount) VALUES (1, ?)`, amount)
	if err != nil {
		return fmt.Errorf("failed to write bankroll: %w", err)
	}
	return nil
}

// RecordRound inserts rec and deletes rows older than the last MaxHistory
// in the same transaction
func (s *SQLite) RecordRound(ctx context.Context, rec blackjack.RoundRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rounds (id, started_at, settled_at, bet, outcome, delta, bankroll_after, player, dealer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UnixNano(),
		rec.SettledAt.UnixNano(),
		rec.Bet,
		rec.Outcome.String(),
		rec.Delta,
		rec.BankrollAfter,
		encodeCards(rec.Player),
		encodeCards(rec.Dealer),
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM rounds WHERE seq <= (SELECT MAX(seq) FROM rounds) - ?`, MaxHistory)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	return tx.Commit()
}

// RecentRounds returns up to n rounds ordered by insertion, newest first
func (s *SQLite) RecentRounds(ctx context.Context, n int) ([]blackjack.RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, settled_at, bet, outcome, delta, bankroll_after, player, dealer
		  FROM rounds ORDER BY seq DESC LIMIT ?`, max(n, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var out []blackjack.RoundRecord
	for rows.Next() {
		var (
			rec              blackjack.RoundRecord
			started, settled int64
			outcome          string
			player, dealer   string
		)
		if err := rows.Scan(&rec.ID, &started, &settled, &rec.Bet, &outcome, &rec.Delta, &rec.BankrollAfter, &player, &dealer); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		if rec.Outcome, err = blackjack.ParseOutcome(outcome); err != nil {
			return nil, err
		}
		if rec.Player, err = deck.ParseCards(player); err != nil {
			return nil, err
		}
		if rec.Dealer, err = deck.ParseCards(dealer); err != nil {
			return nil, err
		}
		rec.StartedAt = time.Unix(0, started).UTC()
		rec.SettledAt = time.Unix(0, settled).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database handle
func (s *SQLite) Close() error {
	return s.db.Close()
}
