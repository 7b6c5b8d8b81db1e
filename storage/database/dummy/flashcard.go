package dummydb

import (
	"context"

	"github.com/trezcool/studybuddy/core/flashcard"
)

type flashcardRepository struct {
	db *table[flashcard.Flashcard]
}

var _ flashcard.Repository = (*flashcardRepository)(nil) // interface compliance check

func NewFlashcardRepository(db *DB) flashcard.Repository {
	return &flashcardRepository{db: db.flashcards}
}

func (repo *flashcardRepository) SaveFlashcards(_ context.Context, cards []flashcard.Flashcard) ([]flashcard.Flashcard, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	saved := append([]flashcard.Flashcard(nil), cards...)
	repo.db.rows = append(repo.db.rows, saved...)
	return saved, nil
}

func (repo *flashcardRepository) QueryFlashcards(_ context.Context, userID string, documentID *string) ([]flashcard.Flashcard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.db.filter(func(f flashcard.Flashcard) bool {
		if f.UserID != userID {
			return false
		}
		return documentID == nil || (f.DocumentID != nil && *f.DocumentID == *documentID)
	}), nil
}

func (repo *flashcardRepository) GetFlashcard(_ context.Context, id string) (flashcard.Flashcard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if idx := repo.db.index(func(f flashcard.Flashcard) bool { return f.ID == id }); idx >= 0 {
		return repo.db.rows[idx], nil
	}
	return flashcard.Flashcard{}, flashcard.ErrNotFound
}

func (repo *flashcardRepository) DeleteFlashcard(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if removed := repo.db.remove(func(f flashcard.Flashcard) bool { return f.ID == id }); len(removed) == 0 {
		return flashcard.ErrNotFound
	}
	return nil
}
