package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/blackjack"
)

// Payout is the ratio a winning blackjack pays against the bet. Ordinary
// wins always pay 1:1.
type Payout struct {
	Num int
	Den int
}

var (
	// EvenMoney pays a blackjack like any other win
	EvenMoney = Payout{Num: 1, Den: 1}

	// ThreeToTwo pays a blackjack 3:2, rounded down to whole chips
	ThreeToTwo = Payout{Num: 3, Den: 2}
)

// ParsePayout reads a ratio such as "1:1" or "3:2"
func ParsePayout(s string) (Payout, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Payout{}, fmt.Errorf("invalid payout %q: want N:D", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return Payout{}, fmt.Errorf("invalid payout %q: bad numerator", s)
	}
	d, err := strconv.Atoi(den)
	if err != nil || d <= 0 {
		return Payout{}, fmt.Errorf("invalid payout %q: bad denominator", s)
	}
	return Payout{Num: n, Den: d}, nil
}

func (p Payout) String() string {
	return fmt.Sprintf("%d:%d", p.Num, p.Den)
}

// Delta returns the bankroll change for a bet settled with outcome
func (p Payout) Delta(bet int, outcome blackjack.Outcome) int {
	switch outcome {
	case blackjack.PlayerBlackjack:
		return bet * p.Num / p.Den
	case blackjack.PlayerWin:
		return bet
	case blackjack.DealerWin, blackjack.PlayerBust:
		return -bet
	default:
		return 0
	}
}

// Settle applies an outcome to a bankroll with blackjacks paid even money.
// It never fails; the bet was checked against the bankroll when placed.
func Settle(bankroll, bet int, outcome blackjack.Outcome) int {
	return bankroll + EvenMoney.Delta(bet, outcome)
}
