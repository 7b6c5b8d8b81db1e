package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/flashcard"
)

// SaveFlashcards persists a generated batch. A nil documentID saves a standalone set.
func (c *Client) SaveFlashcards(ctx context.Context, userID string, documentID *string, cards []flashcard.Card) core.Result[[]flashcard.Flashcard] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]flashcard.Flashcard](err)
	}
	documentID = core.CleanStringPtr(documentID)
	if documentID != nil {
		if _, err := c.ownDocument(ctx, *documentID); err != nil {
			return core.Fail[[]flashcard.Flashcard](err)
		}
	}
	saved, err := c.svcs.Flashcards.Save(ctx, userID, flashcard.SaveRequest{DocumentID: documentID, Cards: cards})
	return result(c, saved, err)
}

// GetFlashcards lists the user's cards, only those of documentID when given.
func (c *Client) GetFlashcards(ctx context.Context, userID string, documentID *string) core.Result[[]flashcard.Flashcard] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]flashcard.Flashcard](err)
	}
	cards, err := c.svcs.Flashcards.Query(ctx, userID, core.CleanStringPtr(documentID))
	return result(c, cards, err)
}

func (c *Client) DeleteFlashcard(ctx context.Context, id string) core.Result[core.Void] {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return void(c, err)
	}
	card, err := c.svcs.Flashcards.Get(ctx, id)
	if err == nil {
		err = owned(uid, card.UserID, flashcard.ErrNotFound)
	}
	if err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.Flashcards.Delete(ctx, id))
}
