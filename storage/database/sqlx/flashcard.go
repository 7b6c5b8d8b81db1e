package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
)

type flashcardRepository struct {
	db core.DB
}

var _ flashcard.Repository = (*flashcardRepository)(nil) // interface compliance check

// NewFlashcardRepository needs a DB (not a transaction): batches are saved in their own transaction.
func NewFlashcardRepository(db core.DB) flashcard.Repository {
	return &flashcardRepository{db: db}
}

const flashcardColumns = "id, user_id, document_id, front, back, created_at"

func (repo *flashcardRepository) SaveFlashcards(ctx context.Context, cards []flashcard.Flashcard) ([]flashcard.Flashcard, error) {
	if len(cards) == 0 {
		return []flashcard.Flashcard{}, nil
	}
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	// one row at a time keeps the SERIAL position in batch order
	for _, card := range cards {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO flashcards (`+flashcardColumns+`)
			VALUES (:id, :user_id, :document_id, :front, :back, :created_at)`, card)
		if isForeignKeyViolation(err) {
			return nil, document.ErrNotFound
		}
		if err != nil {
			return nil, errors.Wrap(err, "inserting flashcard")
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing flashcards")
	}
	return cards, nil
}

func (repo *flashcardRepository) QueryFlashcards(ctx context.Context, userID string, documentID *string) ([]flashcard.Flashcard, error) {
	cards := make([]flashcard.Flashcard, 0)
	err := repo.db.SelectContext(ctx, &cards, `
		SELECT `+flashcardColumns+` FROM flashcards
		WHERE user_id = $1 AND ($2::uuid IS NULL OR document_id = $2)
		ORDER BY position`, userID, documentID)
	return cards, errors.Wrap(err, "selecting flashcards")
}

func (repo *flashcardRepository) GetFlashcard(ctx context.Context, id string) (flashcard.Flashcard, error) {
	var card flashcard.Flashcard
	err := repo.db.GetContext(ctx, &card, "SELECT "+flashcardColumns+" FROM flashcards WHERE id = $1", id)
	return card, notFound(err, flashcard.ErrNotFound)
}

func (repo *flashcardRepository) DeleteFlashcard(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM flashcards WHERE id = $1", id)
	return affected(res, err, flashcard.ErrNotFound)
}
