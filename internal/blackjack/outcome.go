package blackjack

import "fmt"

// Outcome is how a round resolved from the player's point of view
type Outcome int

const (
	PlayerBlackjack Outcome = iota + 1
	PlayerWin
	DealerWin
	Push
	PlayerBust
)

func (o Outcome) String() string {
	switch o {
	case PlayerBlackjack:
		return "player-blackjack"
	case PlayerWin:
		return "player-win"
	case DealerWin:
		return "dealer-win"
	case Push:
		return "push"
	case PlayerBust:
		return "player-bust"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of Outcome.String
func ParseOutcome(s string) (Outcome, error) {
	for o := PlayerBlackjack; o <= PlayerBust; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// PlayerWon reports whether the outcome pays the player
func (o Outcome) PlayerWon() bool {
	return o == PlayerWin || o == PlayerBlackjack
}

// PlayerLost reports whether the outcome takes the bet
func (o Outcome) PlayerLost() bool {
	return o == DealerWin || o == PlayerBust
}

// RoundOutcome is a resolved round together with the stake it settles
type RoundOutcome struct {
	Outcome Outcome
	Bet     int
	// Delta is the bankroll change applied at settlement
	Delta int
}

// Resolve compares finished hands. A busted player loses regardless of
// the dealer; a player blackjack only pushes against a dealer blackjack.
func Resolve(player, dealer Hand) Outcome {
	if player.IsBust() {
		return PlayerBust
	}
	if player.IsBlackjack() {
		if dealer.IsBlackjack() {
			return Push
		}
		return PlayerBlackjack
	}
	if dealer.IsBust() {
		return PlayerWin
	}

	pv, dv := player.Value(), dealer.Value()
	switch {
	case pv > dv:
		return PlayerWin
	case pv < dv:
		return DealerWin
	default:
		return Push
	}
}
