package blackjack

// Phase is the stage a round is in
type Phase int

const (
	Betting Phase = iota
	PlayerTurn
	DealerTurn
	Settled
)

func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case PlayerTurn:
		return "player-turn"
	case DealerTurn:
		return "dealer-turn"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}
