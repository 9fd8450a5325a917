package blackjack

import (
	"context"
	"time"
)

// Bankroll holds the player's balance and applies settlements to it.
// Settle returns the new balance; a non-nil error means the balance
// changed in memory but could not be persisted.
type Bankroll interface {
	Balance() int
	Settle(ctx context.Context, bet int, outcome Outcome) (int, error)
}

// RoundRecord is the audit entry written for every settled round
type RoundRecord struct {
	ID            string
	StartedAt     time.Time
	SettledAt     time.Time
	Bet           int
	Outcome       Outcome
	Delta         int
	BankrollAfter int
	Player        Hand
	Dealer        Hand
}

// HistoryRecorder receives a record after each settlement
type HistoryRecorder interface {
	RecordRound(ctx context.Context, rec RoundRecord) error
}
