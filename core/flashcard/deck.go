package flashcard

import (
	"errors"
	"math/rand"
)

var ErrEmptyDeck = errors.New("no flashcards to review")

// Deck walks through a non-empty set of cards, one side at a time.
type Deck struct {
	cards   []Card
	pos     int
	flipped bool
}

func NewDeck(cards []Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Deck{cards: append([]Card(nil), cards...)}, nil
}

// Current returns the current card and whether its back is showing.
func (d *Deck) Current() (Card, bool) {
	return d.cards[d.pos], d.flipped
}

// Side returns the text currently showing.
func (d *Deck) Side() string {
	if d.flipped {
		return d.cards[d.pos].Back
	}
	return d.cards[d.pos].Front
}

func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Next moves to the next card, wrapping around, front side up.
func (d *Deck) Next() {
	d.pos = (d.pos + 1) % len(d.cards)
	d.flipped = false
}

// Prev moves to the previous card, wrapping around, front side up.
func (d *Deck) Prev() {
	d.pos = (d.pos - 1 + len(d.cards)) % len(d.cards)
	d.flipped = false
}

// Shuffle reorders the cards and restarts from the first one.
func (d *Deck) Shuffle(rnd *rand.Rand) {
	rnd.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
	d.pos, d.flipped = 0, false
}

// Position returns the 1-based index of the current card and the deck size.
func (d *Deck) Position() (int, int) {
	return d.pos + 1, len(d.cards)
}
