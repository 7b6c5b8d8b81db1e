package note

import (
	"time"

	"github.com/trezcool/studybuddy/core"
)

type Note struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CourseID  *string   `json:"course_id" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`       // markdown or HTML
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewNote contains information needed to create a new Note.
type NewNote struct {
	CourseID *string `json:"course_id"`
	Title    string  `json:"title" validate:"required,notblank,max=200"`
	Content  string  `json:"content" validate:"max=200000"`
}

func (nn *NewNote) Clean() {
	nn.CourseID = core.CleanStringPtr(nn.CourseID)
	nn.Title = core.CleanString(nn.Title)
}

// UpdateNote defines what information may be provided to modify an existing Note.
type UpdateNote struct {
	CourseID *string `json:"course_id"`
	Title    *string `json:"title" validate:"omitempty,notblank,max=200"`
	Content  *string `json:"content" validate:"omitempty,max=200000"`
}
