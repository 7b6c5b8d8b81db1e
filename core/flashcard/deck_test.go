package flashcard

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cards = []Card{{Front: "Cell", Back: "Unit of life"}, {Front: "DNA", Back: "Genetic code"}, {Front: "ATP", Back: "Energy"}}

func TestNewDeck(t *testing.T) {
	_, err := NewDeck(nil)
	assert.ErrorIs(t, err, ErrEmptyDeck)

	in := append([]Card(nil), cards...)
	deck, err := NewDeck(in)
	require.NoError(t, err)
	in[0].Front = "changed"
	card, flipped := deck.Current()
	assert.Equal(t, "Cell", card.Front)
	assert.False(t, flipped)
}

func TestDeck_navigation(t *testing.T) {
	deck, err := NewDeck(cards)
	require.NoError(t, err)

	assert.Equal(t, "Cell", deck.Side())
	deck.Flip()
	assert.Equal(t, "Unit of life", deck.Side())

	deck.Next()
	assert.Equal(t, "DNA", deck.Side(), "moving shows the front")
	pos, total := deck.Position()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 3, total)

	deck.Next()
	deck.Next()
	pos, _ = deck.Position()
	assert.Equal(t, 1, pos, "next wraps around")

	deck.Prev()
	pos, _ = deck.Position()
	assert.Equal(t, 3, pos, "prev wraps around")
	assert.Equal(t, "ATP", deck.Side())
}

func TestDeck_Shuffle(t *testing.T) {
	deck, err := NewDeck(cards)
	require.NoError(t, err)
	deck.Next()
	deck.Flip()

	deck.Shuffle(rand.New(rand.NewSource(42)))
	pos, total := deck.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 3, total)
	_, flipped := deck.Current()
	assert.False(t, flipped)

	seen := map[string]bool{}
	for i := 0; i < total; i++ {
		card, _ := deck.Current()
		seen[card.Front] = true
		deck.Next()
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "Cell", cards[0].Front, "the source cards are not reordered")
}
