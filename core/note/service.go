package note

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
	ErrNotFound = errors.New("note not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryNotes returns the user's notes, most recently updated first.
		// A nil courseID returns the notes of every course.
		QueryNotes(ctx context.Context, userID string, courseID *string) ([]Note, error)
		GetNote(ctx context.Context, id string) (Note, error)
		CreateNote(ctx context.Context, n Note) (Note, error)
		UpdateNote(ctx context.Context, n Note) (Note, error)
		DeleteNote(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context, userID string, courseID *string) ([]Note, error) {
	notes, err := svc.repo.QueryNotes(ctx, userID, core.CleanStringPtr(courseID))
	return notes, pkgerrors.Wrap(err, "querying notes")
}

func (svc *Service) Get(ctx context.Context, id string) (Note, error) {
	n, err := svc.repo.GetNote(ctx, id)
	return n, pkgerrors.Wrap(err, "getting note")
}

func (svc *Service) Create(ctx context.Context, userID string, nn NewNote) (Note, error) {
	nn.Clean()
	if err := svc.validate.Struct(nn); err != nil {
		return Note{}, err
	}
	now := NowFunc().UTC()
	n, err := svc.repo.CreateNote(ctx, Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  nn.CourseID,
		Title:     nn.Title,
		Content:   nn.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return n, pkgerrors.Wrap(err, "creating note")
}

func (svc *Service) Update(ctx context.Context, id string, un UpdateNote) (Note, error) {
	if err := svc.validate.Struct(un); err != nil {
		return Note{}, err
	}
	n, err := svc.repo.GetNote(ctx, id)
	if err != nil {
		return Note{}, pkgerrors.Wrap(err, "getting note")
	}
	if un.CourseID != nil {
		n.CourseID = core.CleanStringPtr(un.CourseID)
	}
	if un.Title != nil {
		n.Title = core.CleanString(*un.Title)
	}
	if un.Content != nil {
		n.Content = *un.Content
	}
	n.UpdatedAt = NowFunc().UTC()
	n, err = svc.repo.UpdateNote(ctx, n)
	return n, pkgerrors.Wrap(err, "updating note")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(svc.repo.DeleteNote(ctx, id), "deleting note")
}
