// Package ledger keeps the player's bankroll and writes it through to a
// store after every settlement.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/store"
)

// DefaultStartingBankroll is the stake used when nothing has been saved
const DefaultStartingBankroll = 1000

// Store persists the single bankroll value. LoadBankroll returns
// store.ErrNotFound when nothing has been saved yet.
type Store interface {
	LoadBankroll(ctx context.Context) (int, error)
	SaveBankroll(ctx context.Context, amount int) error
}

// Ledger is the in-memory bankroll backed by a Store. It satisfies
// blackjack.Bankroll.
type Ledger struct {
	store    Store
	payout   Payout
	starting int
	balance  int
	logger   *log.Logger
}

// Option configures a Ledger
type Option func(*Ledger)

// WithPayout sets the blackjack payout. Defaults to EvenMoney.
func WithPayout(p Payout) Option {
	return func(l *Ledger) {
		l.payout = p
	}
}

// WithStartingBankroll sets the stake used when the store is empty.
func WithStartingBankroll(amount int) Option {
	return func(l *Ledger) {
		l.starting = amount
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger.WithPrefix("ledger")
	}
}

// Open reads the bankroll from s, falling back to the starting stake when
// none has been saved.
func Open(ctx context.Context, s Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    s,
		payout:   EvenMoney,
		starting: DefaultStartingBankroll,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}

	balance, err := s.LoadBankroll(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.logger.Info("No saved bankroll, using starting stake", "bankroll", l.starting)
		balance = l.starting
	case err != nil:
		return nil, fmt.Errorf("load bankroll: %w", err)
	case balance < 0:
		return nil, fmt.Errorf("load bankroll: negative balance %d", balance)
	default:
		l.logger.Debug("Loaded bankroll", "bankroll", balance)
	}

	l.balance = balance
	return l, nil
}

// Balance returns the current bankroll
func (l *Ledger) Balance() int {
	return l.balance
}

// Payout returns the blackjack payout in force
func (l *Ledger) Payout() Payout {
	return l.payout
}

// Settle applies the outcome of a round and saves the new balance. The
// in-memory balance is updated even when saving fails.
func (l *Ledger) Settle(ctx context.Context, bet int, outcome blackjack.Outcome) (int, error) {
	l.balance += l.payout.Delta(bet, outcome)
	if err := l.store.SaveBankroll(ctx, l.balance); err != nil {
		return l.balance, err
	}
	return l.balance, nil
}

// Reset restores the starting stake and saves it
func (l *Ledger) Reset(ctx context.Context) error {
	l.balance = l.starting
	if err := l.store.SaveBankroll(ctx, l.balance); err != nil {
		return fmt.Errorf("save bankroll: %w", err)
	}
	l.logger.Info("Bankroll reset", "bankroll", l.balance)
	return nil
}

var _ blackjack.Bankroll = (*Ledger)(nil)
