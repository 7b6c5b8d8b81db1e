package flashcard

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
)

var (
	// errors
	ErrNotFound = errors.New("flashcard not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// SaveFlashcards inserts the whole batch or nothing.
		SaveFlashcards(ctx context.Context, cards []Flashcard) ([]Flashcard, error)
		// QueryFlashcards returns the user's cards in insertion order.
		// A nil documentID returns every card of the user.
		QueryFlashcards(ctx context.Context, userID string, documentID *string) ([]Flashcard, error)
		GetFlashcard(ctx context.Context, id string) (Flashcard, error)
		DeleteFlashcard(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Save persists the generated cards as a batch tagged with the originating document (or nil).
// Front and back are stored exactly as generated.
func (svc *Service) Save(ctx context.Context, userID string, req SaveRequest) ([]Flashcard, error) {
	if err := svc.validate.Struct(req); err != nil {
		return nil, err
	}
	docID := core.CleanStringPtr(req.DocumentID)
	now := NowFunc().UTC()
	cards := make([]Flashcard, 0, len(req.Cards))
	for i, c := range req.Cards {
		cards = append(cards, Flashcard{
			ID:         uuid.NewString(),
			UserID:     userID,
			DocumentID: docID,
			Front:      c.Front,
			Back:       c.Back,
			CreatedAt:  now.Add(time.Duration(i) * time.Microsecond), // keeps batch order
		})
	}
	saved, err := svc.repo.SaveFlashcards(ctx, cards)
	return saved, pkgerrors.Wrap(err, "saving flashcards")
}

func (svc *Service) Query(ctx context.Context, userID string, documentID *string) ([]Flashcard, error) {
	cards, err := svc.repo.QueryFlashcards(ctx, userID, core.CleanStringPtr(documentID))
	return cards, pkgerrors.Wrap(err, "querying flashcards")
}

func (svc *Service) Get(ctx context.Context, id string) (Flashcard, error) {
	card, err := svc.repo.GetFlashcard(ctx, id)
	return card, pkgerrors.Wrap(err, "getting flashcard")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(svc.repo.DeleteFlashcard(ctx, id), "deleting flashcard")
}
