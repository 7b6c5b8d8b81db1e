package course

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		QueryCourses(ctx context.Context, userID string) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		// UpdateSyllabus replaces the whole syllabus document.
		UpdateSyllabus(ctx context.Context, id string, syllabus *Syllabus, updatedAt time.Time) (Course, error)
		// DeleteCourse cascades to the course's documents, tasks and notes.
		DeleteCourse(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context, userID string) ([]Course, error) {
	courses, err := svc.repo.QueryCourses(ctx, userID)
	return courses, pkgerrors.Wrap(err, "querying courses")
}

func (svc *Service) Get(ctx context.Context, id string) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, id)
	return crs, pkgerrors.Wrap(err, "getting course")
}

func (svc *Service) Create(ctx context.Context, userID string, nc NewCourse) (Course, error) {
	nc.Clean()
	if err := svc.validate.Struct(nc); err != nil {
		return Course{}, err
	}
	now := NowFunc().UTC()
	crs, err := svc.repo.CreateCourse(ctx, Course{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        nc.Name,
		Description: nc.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return crs, pkgerrors.Wrap(err, "creating course")
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	uc.Clean()
	if err := svc.validate.Struct(uc); err != nil {
		return Course{}, err
	}
	crs, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, pkgerrors.Wrap(err, "getting course")
	}
	if uc.Name != nil {
		crs.Name = *uc.Name
	}
	if uc.Description != nil {
		crs.Description = *uc.Description
	}
	crs.UpdatedAt = NowFunc().UTC()
	crs, err = svc.repo.UpdateCourse(ctx, crs)
	return crs, pkgerrors.Wrap(err, "updating course")
}

// UpdateSyllabus stores syllabus as the course's syllabus.
// Concurrent editors do not merge: the last write replaces the whole document.
func (svc *Service) UpdateSyllabus(ctx context.Context, id string, syllabus *Syllabus) (Course, error) {
	if syllabus != nil {
		for _, ch := range syllabus.Chapters {
			if ch.ID == "" {
				return Course{}, ErrInvalidSyllabus
			}
			if _, err := cleanTitle(ch.Title); err != nil {
				return Course{}, err
			}
			for _, tp := range ch.Topics {
				if tp.ID == "" {
					return Course{}, ErrInvalidSyllabus
				}
				if _, err := cleanTitle(tp.Title); err != nil {
					return Course{}, err
				}
			}
		}
	}
	crs, err := svc.repo.UpdateSyllabus(ctx, id, syllabus, NowFunc().UTC())
	return crs, pkgerrors.Wrap(err, "updating syllabus")
}

// EditSyllabus loads the course's syllabus, applies edit to a copy and stores the result.
func (svc *Service) EditSyllabus(ctx context.Context, id string, edit func(*Syllabus) error) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, pkgerrors.Wrap(err, "getting course")
	}
	syllabus := crs.Syllabus.Clone()
	if syllabus == nil {
		syllabus = &Syllabus{Chapters: []Chapter{}}
	}
	if err = edit(syllabus); err != nil {
		return Course{}, err
	}
	return svc.UpdateSyllabus(ctx, id, syllabus)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(svc.repo.DeleteCourse(ctx, id), "deleting course")
}
