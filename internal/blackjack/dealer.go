package blackjack

import "github.com/lox/blackjack/internal/deck"

// DealerStandsOn is the total at which the dealer stops drawing. The
// dealer stands on every 17, soft or hard.
const DealerStandsOn = 17

// DealerShouldHit reports whether the dealer policy draws another card
func DealerShouldHit(h Hand) bool {
	return h.Value() < DealerStandsOn
}

// PlayDealer completes the dealer hand by drawing until the policy stands.
// The returned hand has a value of at least 17 unless draw failed.
func PlayDealer(h Hand, draw func() (deck.Card, error)) (Hand, error) {
	for DealerShouldHit(h) {
		c, err := draw()
		if err != nil {
			return h, err
		}
		h = append(h, c)
	}
	return h, nil
}
