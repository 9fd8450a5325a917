package blackjack

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func hand(s string) Hand {
	return Hand(deck.MustParseCards(s))
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		value int
		soft  bool
	}{
		{"empty", "", 0, false},
		{"pair of twos", "2c2d", 4, false},
		{"face cards", "KsQh", 20, false},
		{"soft seventeen", "As6d", 17, true},
		{"ace downgraded", "As6dTh", 17, false},
		{"two aces", "AsAh", 12, true},
		{"three aces and nine", "AsAhAd9c", 12, false},
		{"blackjack", "AsKh", 21, true},
		{"three card twenty one", "7s7h7d", 21, false},
		{"soft twenty one", "As5h5d", 21, true},
		{"bust", "ThTs5d", 25, false},
		{"aces cannot save bust", "AsThTd5c", 26, false},
		{"four aces", "AsAhAdAc", 14, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hand(tt.cards)
			assert.Equal(t, tt.value, h.Value())
			assert.Equal(t, tt.soft, h.IsSoft())
		})
	}
}

func TestHandValueIgnoresOrder(t *testing.T) {
	orders := []string{"AsTh6d", "ThAs6d", "6dThAs", "6dAsTh"}
	for _, o := range orders {
		assert.Equal(t, 17, hand(o).Value(), o)
	}
}

func TestHandValueNeverOver21WhenAcesCanReduce(t *testing.T) {
	// Every hand of up to four aces plus one other card has a total of 21
	// or less unless the non-ace cards alone already bust.
	for aces := 1; aces <= 4; aces++ {
		for _, rank := range deck.Ranks {
			h := make(Hand, 0, aces+1)
			for range aces {
				h = append(h, deck.NewCard(deck.Spades, deck.Ace))
			}
			h = append(h, deck.NewCard(deck.Hearts, rank))
			assert.LessOrEqual(t, h.Value(), Target, "%s", h)
		}
	}
}

func TestIsBlackjack(t *testing.T) {
	tests := []struct {
		cards string
		want  bool
	}{
		{"AsKh", true},
		{"ThAd", true},
		{"AsJc", true},
		{"As9h", false},
		{"AsKhQd", false},
		{"7s7h7d", false},
		{"KsQh", false},
	}
	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, hand(tt.cards).IsBlackjack())
		})
	}
}

func TestIsBust(t *testing.T) {
	assert.True(t, hand("ThTs5d").IsBust())
	assert.False(t, hand("ThTsAd").IsBust())
}

func TestCloneDoesNotAlias(t *testing.T) {
	h := hand("As6d")
	c := h.Clone()
	c[0] = deck.NewCard(deck.Clubs, deck.Two)
	assert.Equal(t, deck.Ace, h[0].Rank)
	assert.Nil(t, Hand(nil).Clone())
}

func TestHandString(t *testing.T) {
	assert.Equal(t, "A♠ K♥", hand("AsKh").String())
}
