package flashcard

import "time"

// Card is a generated, unsaved flashcard.
type Card struct {
	Front string `json:"front" validate:"required,notblank"`
	Back  string `json:"back" validate:"required,notblank"`
}

// Flashcard is a persisted card. DocumentID is nil for standalone sets.
type Flashcard struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	DocumentID *string   `json:"document_id" db:"document_id"`
	Front      string    `json:"front" db:"front"`
	Back       string    `json:"back" db:"back"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
}

func (f Flashcard) Card() Card {
	return Card{Front: f.Front, Back: f.Back}
}

// SaveRequest is a batch of generated cards to persist.
type SaveRequest struct {
	DocumentID *string `json:"document_id"`
	Cards      []Card  `json:"flashcards" validate:"required,min=1,max=200,dive"`
}
