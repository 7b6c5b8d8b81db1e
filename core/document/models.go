package document

import (
	"errors"
	"io"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studybuddy/core"
)

// Action is an AI action that can run on a document's extracted content.
type Action string

const (
	ActionSummarize  Action = "summarize"
	ActionQuiz       Action = "quiz"
	ActionFlashcards Action = "flashcards"
)

var (
	Actions = []string{string(ActionSummarize), string(ActionQuiz), string(ActionFlashcards)}

	ErrNotProcessed  = errors.New("document processing not complete")
	ErrUnknownAction = errors.New("unknown document action")
)

// InitValidators registers the docaction tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterEnum(validate, translator, "docaction", Actions...)
}

// ActionRequest asks for an AI action on a document.
type ActionRequest struct {
	Action Action `json:"action" validate:"required,docaction"`
}

func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if a == s {
			return Action(s), nil
		}
	}
	return "", ErrUnknownAction
}

type Document struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"user_id" db:"user_id"`
	CourseID    string          `json:"course_id" db:"course_id"`
	ChapterID   *string         `json:"chapter_id" db:"chapter_id"`
	TopicID     *string         `json:"topic_id" db:"topic_id"`
	Name        string          `json:"name" db:"name"`
	StoragePath string          `json:"storage_path" db:"storage_path"`
	FileType    string          `json:"file_type" db:"file_type"`
	Content     *string         `json:"content" db:"content"` // nil until extracted
	Tags        core.StringList `json:"tags" db:"tags"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"` // UTC
}

// AIReady reports whether the document has extracted text AI actions can run on.
func (d Document) AIReady() bool {
	return d.Content != nil && strings.TrimSpace(*d.Content) != ""
}

// CheckAIReady returns ErrNotProcessed when AI actions must stay disabled.
func (d Document) CheckAIReady() error {
	if !d.AIReady() {
		return ErrNotProcessed
	}
	return nil
}

// File is an uploaded file.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// UploadOptions attach the uploaded document to a place in the course syllabus.
type UploadOptions struct {
	ChapterID *string  `json:"chapter_id"`
	TopicID   *string  `json:"topic_id"`
	Tags      []string `json:"tags" validate:"max=20,dive,notblank,max=50"`
}
