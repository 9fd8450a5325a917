package deck

import (
	"errors"
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck
const Size = 52

// ErrExhausted is returned when drawing from a deck with no cards left
var ErrExhausted = errors.New("deck exhausted")

// Deck is a fixed run of cards consumed from the front by a draw cursor.
// Drawn cards are never returned to the deck.
type Deck struct {
	cards []Card
	next  int
}

// Standard returns the 52 cards in canonical suit-major order, unshuffled.
func Standard() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// New builds a standard 52-card deck and shuffles it with rng.
// The RNG is required so that shuffles are reproducible under test.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{cards: Standard()}
	Shuffle(rng, d.cards)
	return d
}

// NewStacked returns a deck that deals exactly the given cards in order.
// It is intended for scripted rounds in tests and replays.
func NewStacked(cards ...Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// Shuffle permutes cards in place using Fisher-Yates, giving every
// ordering equal probability for a uniform rng.
func Shuffle(rng *rand.Rand, cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Draw removes and returns the next card
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Remaining returns the number of cards left to draw
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undrawn cards in draw order
func (d *Deck) Cards() []Card {
	out := make([]Card, d.Remaining())
	copy(out, d.cards[d.next:])
	return out
}
