package blackjack

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// round is the phase-specific data of the current round. Each phase has
// its own type so a hand cannot exist while betting is still open.
type round interface {
	phase() Phase
}

type betting struct{}

// table is the state shared by every phase after a bet is accepted
type table struct {
	id        string
	startedAt time.Time
	deck      *deck.Deck
	bet       int
	player    Hand
	dealer    Hand
}

type playerTurn struct{ table }

type dealerTurn struct{ table }

type settled struct {
	table
	outcome RoundOutcome
}

func (betting) phase() Phase    { return Betting }
func (playerTurn) phase() Phase { return PlayerTurn }
func (dealerTurn) phase() Phase { return DealerTurn }
func (settled) phase() Phase    { return Settled }

// State is a snapshot of the engine returned by every command
type State struct {
	Phase          Phase
	RoundID        string
	Bet            int
	Bankroll       int
	Player         Hand
	Dealer         Hand
	PlayerValue    int
	DealerValue    int
	PlayerSoft     bool
	DealerSoft     bool
	CardsRemaining int
	// Outcome is set only once the round is Settled
	Outcome *RoundOutcome
}

func (t *table) snapshot(s *State) {
	s.RoundID = t.id
	s.Bet = t.bet
	s.Player = t.player.Clone()
	s.Dealer = t.dealer.Clone()
	s.PlayerValue, s.PlayerSoft = Evaluate(t.player)
	s.DealerValue, s.DealerSoft = Evaluate(t.dealer)
	s.CardsRemaining = t.deck.Remaining()
}
