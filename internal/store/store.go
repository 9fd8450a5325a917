// Package store persists the bankroll and the history of settled rounds.
//
// Every backend stores one integer bankroll under one key and appends
// round records to a bounded history.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// ErrNotFound is returned by LoadBankroll when no bankroll has been saved
var ErrNotFound = errors.New("bankroll not found")

// MaxHistory bounds how many round records a backend keeps
const MaxHistory = 500

// Store is implemented by every backend
type Store interface {
	LoadBankroll(ctx context.Context) (int, error)
	SaveBankroll(ctx context.Context, amount int) error
	RecordRound(ctx context.Context, rec blackjack.RoundRecord) error
	// RecentRounds returns up to n records, newest first
	RecentRounds(ctx context.Context, n int) ([]blackjack.RoundRecord, error)
	Close() error
}

// roundJSON is the serialised form of a RoundRecord used by the file and
// Redis backends
type roundJSON struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	SettledAt     time.Time `json:"settled_at"`
	Bet           int       `json:"bet"`
	Outcome       string    `json:"outcome"`
	Delta         int       `json:"delta"`
	BankrollAfter int       `json:"bankroll_after"`
	Player        string    `json:"player"`
	Dealer        string    `json:"dealer"`
}

func encodeRound(rec blackjack.RoundRecord) roundJSON {
	return roundJSON{
		ID:            rec.ID,
		StartedAt:     rec.StartedAt.UTC(),
		SettledAt:     rec.SettledAt.UTC(),
		Bet:           rec.Bet,
		Outcome:       rec.Outcome.String(),
		Delta:         rec.Delta,
		BankrollAfter: rec.BankrollAfter,
		Player:        encodeCards(rec.Player),
		Dealer:        encodeCards(rec.Dealer),
	}
}

func (r roundJSON) decode() (blackjack.RoundRecord, error) {
	outcome, err := blackjack.ParseOutcome(r.Outcome)
	if err != nil {
		return blackjack.RoundRecord{}, err
	}
	player, err := deck.ParseCards(r.Player)
	if err != nil {
		return blackjack.RoundRecord{}, err
	}
	dealer, err := deck.ParseCards(r.Dealer)
	if err != nil {
		return blackjack.RoundRecord{}, err
	}
	return blackjack.RoundRecord{
		ID:            r.ID,
		StartedAt:     r.StartedAt,
		SettledAt:     r.SettledAt,
		Bet:           r.Bet,
		Outcome:       outcome,
		Delta:         r.Delta,
		BankrollAfter: r.BankrollAfter,
		Player:        player,
		Dealer:        dealer,
	}, nil
}

func encodeCards(h blackjack.Hand) string {
	var b strings.Builder
	for _, c := range h {
		b.WriteString(c.Code())
	}
	return b.String()
}
