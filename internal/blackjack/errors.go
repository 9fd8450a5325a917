package blackjack

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

var (
	// ErrInvalidBet is returned when a bet is not positive or exceeds the bankroll
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInvalidTransition is returned when a command is issued in a phase
	// that does not accept it
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDeckExhausted is returned when a round runs out of cards. The
	// round is abandoned without settlement.
	ErrDeckExhausted = deck.ErrExhausted
)

// TransitionError describes a rejected command
type TransitionError struct {
	Command string
	Phase   Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s not accepted during %s", ErrInvalidTransition, e.Command, e.Phase)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
