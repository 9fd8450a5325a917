package blackjack

import (
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.WithPrefix("engine")
	}
}

// WithClock sets the clock used to timestamp round records.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithDeckSource replaces the per-round deck builder. The source is called
// once at every accepted bet and must return a fresh deck.
func WithDeckSource(source func() *deck.Deck) Option {
	return func(e *Engine) {
		e.newDeck = source
	}
}

// WithRecorder sends a RoundRecord to r after each settlement.
func WithRecorder(r HistoryRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithIDGenerator overrides how round IDs are produced.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}
