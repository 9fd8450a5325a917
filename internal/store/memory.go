package store

import (
	"context"
	"sync"

	"github.com/lox/blackjack/internal/blackjack"
)

// Memory keeps everything in process. It is used by tests and by the
// simulator, where nothing should outlive the run.
type Memory struct {
	mu       sync.Mutex
	bankroll *int
	rounds   []blackjack.RoundRecord
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

// LoadBankroll returns ErrNotFound until a bankroll has been saved
func (m *Memory) LoadBankroll(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bankroll == nil {
		return 0, ErrNotFound
	}
	return *m.bankroll, nil
}

// SaveBankroll replaces the stored bankroll
func (m *Memory) SaveBankroll(_ context.Context, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bankroll = &amount
	return nil
}

// RecordRound appends rec, dropping the oldest rounds past MaxHistory
func (m *Memory) RecordRound(_ context.Context, rec blackjack.RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, rec)
	if len(m.rounds) > MaxHistory {
		m.rounds = m.rounds[len(m.rounds)-MaxHistory:]
	}
	return nil
}

// RecentRounds returns up to n rounds, newest first
func (m *Memory) RecentRounds(_ context.Context, n int) ([]blackjack.RoundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newestFirst(m.rounds, n), nil
}

// Close is a no-op
func (m *Memory) Close() error { return nil }

// newestFirst returns up to n of rounds (stored oldest first) in reverse
func newestFirst(rounds []blackjack.RoundRecord, n int) []blackjack.RoundRecord {
	n = max(0, min(n, len(rounds)))
	out := make([]blackjack.RoundRecord, 0, n)
	for i := len(rounds) - 1; i >= len(rounds)-n; i-- {
		out = append(out, rounds[i])
	}
	return out
}
