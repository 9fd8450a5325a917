package blackjack

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/blackjack/internal/deck"
)

// Engine runs blackjack rounds for one player against the dealer.
type Engine struct {
	bankroll Bankroll
	recorder HistoryRecorder
	newDeck  func() *deck.Deck
	newID    func() string
	clock    quartz.Clock
	logger   *log.Logger

	round round
}

// NewEngine creates an engine in the Betting phase. The RNG is required
// and shuffles every deck unless WithDeckSource replaces the builder.
func NewEngine(rng *rand.Rand, bankroll Bankroll, opts ...Option) *Engine {
	if rng == nil {
		panic("rng is required for engine creation")
	}
	if bankroll == nil {
		panic("bankroll is required for engine creation")
	}

	e := &Engine{
		bankroll: bankroll,
		newDeck:  func() *deck.Deck { return deck.New(rng) },
		newID:    newRoundID,
		clock:    quartz.NewReal(),
		logger:   log.New(io.Discard),
		round:    betting{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	return e.round.phase()
}

// State returns a snapshot of the current round
func (e *Engine) State() State {
	s := State{
		Phase:    e.round.phase(),
		Bankroll: e.bankroll.Balance(),
	}
	switch r := e.round.(type) {
	case playerTurn:
		r.snapshot(&s)
	case dealerTurn:
		r.snapshot(&s)
	case settled:
		r.snapshot(&s)
		out := r.outcome
		s.Outcome = &out
	}
	return s
}

// PlaceBet opens a round with the given stake. The bet must be positive
// and no larger than the bankroll; otherwise ErrInvalidBet is returned and
// nothing changes. A player blackjack on the deal plays the dealer out and
// settles immediately.
func (e *Engine) PlaceBet(ctx context.Context, amount int) (State, error) {
	if _, ok := e.round.(betting); !ok {
		return e.State(), e.reject("place-bet")
	}

	balance := e.bankroll.Balance()
	if amount <= 0 || amount > balance {
		e.logger.Warn("Bet rejected", "bet", amount, "bankroll", balance)
		return e.State(), fmt.Errorf("%w: %d against bankroll %d", ErrInvalidBet, amount, balance)
	}

	t := table{
		id:        e.newID(),
		startedAt: e.clock.Now(),
		deck:      e.newDeck(),
		bet:       amount,
	}

	// player, dealer, player, dealer
	for range 2 {
		c, err := t.deck.Draw()
		if err != nil {
			return e.abort(t, err)
		}
		t.player = append(t.player, c)

		c, err = t.deck.Draw()
		if err != nil {
			return e.abort(t, err)
		}
		t.dealer = append(t.dealer, c)
	}

	e.logger.Debug("Round dealt",
		"round", t.id,
		"bet", amount,
		"player", t.player,
		"dealer", t.dealer)

	if t.player.IsBlackjack() {
		e.logger.Debug("Player blackjack on the deal", "round", t.id)
		return e.playDealer(ctx, dealerTurn{t})
	}

	e.round = playerTurn{t}
	return e.State(), nil
}

// Hit deals one card to the player. Going over 21 settles the round as a
// bust without the dealer drawing.
func (e *Engine) Hit(ctx context.Context) (State, error) {
	r, ok := e.round.(playerTurn)
	if !ok {
		return e.State(), e.reject("hit")
	}

	c, err := r.deck.Draw()
	if err != nil {
		return e.abort(r.table, err)
	}
	r.player = append(r.player, c)

	e.logger.Debug("Player hits", "round", r.id, "card", c, "value", r.player.Value())

	if r.player.IsBust() {
		return e.settle(ctx, r.table)
	}

	e.round = r
	return e.State(), nil
}

// Stand ends the player's turn and plays out the dealer
func (e *Engine) Stand(ctx context.Context) (State, error) {
	r, ok := e.round.(playerTurn)
	if !ok {
		return e.State(), e.reject("stand")
	}

	e.logger.Debug("Player stands", "round", r.id, "value", r.player.Value())
	return e.playDealer(ctx, dealerTurn(r))
}

// NewRound discards the settled round and reopens betting
func (e *Engine) NewRound() (State, error) {
	if _, ok := e.round.(settled); !ok {
		return e.State(), e.reject("new-round")
	}
	e.round = betting{}
	return e.State(), nil
}

func (e *Engine) playDealer(ctx context.Context, r dealerTurn) (State, error) {
	e.round = r

	dealer, err := PlayDealer(r.dealer, r.deck.Draw)
	if err != nil {
		return e.abort(r.table, err)
	}
	r.dealer = dealer

	e.logger.Debug("Dealer done", "round", r.id, "dealer", r.dealer, "value", r.dealer.Value())
	return e.settle(ctx, r.table)
}

// settle resolves the hands, applies the result to the bankroll and moves
// to Settled. A persistence failure still leaves the round settled.
func (e *Engine) settle(ctx context.Context, t table) (State, error) {
	outcome := Resolve(t.player, t.dealer)

	before := e.bankroll.Balance()
	after, persistErr := e.bankroll.Settle(ctx, t.bet, outcome)

	result := RoundOutcome{Outcome: outcome, Bet: t.bet, Delta: after - before}
	e.round = settled{table: t, outcome: result}

	e.logger.Info("Round settled",
		"round", t.id,
		"outcome", outcome,
		"bet", t.bet,
		"delta", result.Delta,
		"bankroll", after)

	if persistErr != nil {
		e.logger.Error("Failed to persist bankroll", "error", persistErr, "bankroll", after)
		persistErr = fmt.Errorf("persist bankroll: %w", persistErr)
	}

	if e.recorder != nil {
		rec := RoundRecord{
			ID:            t.id,
			StartedAt:     t.startedAt,
			SettledAt:     e.clock.Now(),
			Bet:           t.bet,
			Outcome:       outcome,
			Delta:         result.Delta,
			BankrollAfter: after,
			Player:        t.player.Clone(),
			Dealer:        t.dealer.Clone(),
		}
		if err := e.recorder.RecordRound(ctx, rec); err != nil {
			e.logger.Warn("Failed to record round", "error", err, "round", t.id)
		}
	}

	return e.State(), persistErr
}

// abort abandons a round that ran out of cards. No settlement happens and
// the bankroll is untouched.
func (e *Engine) abort(t table, err error) (State, error) {
	e.logger.Error("Round abandoned", "round", t.id, "error", err)
	e.round = betting{}
	return e.State(), fmt.Errorf("round %s abandoned: %w", t.id, err)
}

// newRoundID returns a time-ordered UUIDv7 so stored rounds sort by start
func newRoundID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (e *Engine) reject(command string) error {
	return &TransitionError{Command: command, Phase: e.round.phase()}
}
