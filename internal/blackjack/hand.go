package blackjack

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// Target is the best possible hand total
	Target = 21

	aceReduction = 10
)

// Hand is an ordered run of cards held by the player or the dealer
type Hand []deck.Card

// Evaluate returns the best total for cards and whether an ace is still
// counted as 11 in that total. Every ace starts at 11 and is downgraded to
// 1, one at a time, while the total is over 21.
func Evaluate(cards []deck.Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		total += c.Points()
		if c.IsAce() {
			aces++
		}
	}
	for total > Target && aces > 0 {
		total -= aceReduction
		aces--
	}
	return total, aces > 0
}

// Value returns the hand total under blackjack ace rules
func (h Hand) Value() int {
	v, _ := Evaluate(h)
	return v
}

// IsSoft reports whether the total counts an ace as 11
func (h Hand) IsSoft() bool {
	_, soft := Evaluate(h)
	return soft
}

// IsBust reports whether the hand total exceeds 21
func (h Hand) IsBust() bool {
	return h.Value() > Target
}

// IsBlackjack reports whether the hand is a two-card 21 (an ace and a
// ten-value card). A 21 made with three or more cards is not a blackjack.
func (h Hand) IsBlackjack() bool {
	if len(h) != 2 {
		return false
	}
	return (h[0].IsAce() && h[1].IsTenValue()) || (h[1].IsAce() && h[0].IsTenValue())
}

// Clone returns a copy that does not share the backing array
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
