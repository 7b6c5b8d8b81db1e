package task

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
	ErrNotFound = errors.New("task not found")

	NowFunc = time.Now // mockable

	// OrderingFields are the fields tasks can be ordered by.
	OrderingFields  = map[string]bool{"due_date": true, "priority": true, "created_at": true, "title": true}
	DefaultOrdering = core.DBOrdering{Field: "due_date", Ascending: true}
)

type (
	Repository interface {
		QueryTasks(ctx context.Context, userID string, orderings ...core.DBOrdering) ([]Task, error)
		// QueryDueTasks returns pending tasks of all users due in [from, to).
		QueryDueTasks(ctx context.Context, from, to time.Time) ([]Task, error)
		GetTask(ctx context.Context, id string) (Task, error)
		CreateTask(ctx context.Context, tsk Task) (Task, error)
		UpdateTask(ctx context.Context, tsk Task) (Task, error)
		UpdateTaskStatus(ctx context.Context, id string, status Status) (Task, error)
		DeleteTask(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context, userID string, orderings ...core.DBOrdering) ([]Task, error) {
	tasks, err := svc.repo.QueryTasks(ctx, userID, orderings...)
	return tasks, pkgerrors.Wrap(err, "querying tasks")
}

func (svc *Service) QueryDue(ctx context.Context, from, to time.Time) ([]Task, error) {
	tasks, err := svc.repo.QueryDueTasks(ctx, from.UTC(), to.UTC())
	return tasks, pkgerrors.Wrap(err, "querying due tasks")
}

func (svc *Service) Get(ctx context.Context, id string) (Task, error) {
	tsk, err := svc.repo.GetTask(ctx, id)
	return tsk, pkgerrors.Wrap(err, "getting task")
}

func (svc *Service) Create(ctx context.Context, userID string, nt NewTask) (Task, error) {
	nt.Clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Task{}, err
	}
	tsk, err := svc.repo.CreateTask(ctx, Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		CourseID:    nt.CourseID,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     nt.DueDate.UTC(),
		Priority:    nt.Priority,
		Status:      StatusPending,
		Type:        nt.Type,
		CreatedAt:   NowFunc().UTC(),
	})
	return tsk, pkgerrors.Wrap(err, "creating task")
}

func (svc *Service) Update(ctx context.Context, id string, upd UpdateTask) (Task, error) {
	if err := svc.validate.Struct(upd); err != nil {
		return Task{}, err
	}
	tsk, err := svc.repo.GetTask(ctx, id)
	if err != nil {
		return Task{}, pkgerrors.Wrap(err, "getting task")
	}
	if upd.CourseID != nil {
		tsk.CourseID = core.CleanStringPtr(upd.CourseID)
	}
	if upd.Title != nil {
		tsk.Title = core.CleanString(*upd.Title)
	}
	if upd.Description != nil {
		tsk.Description = core.CleanString(*upd.Description)
	}
	if upd.DueDate != nil {
		tsk.DueDate = upd.DueDate.UTC()
	}
	if upd.Priority != nil {
		tsk.Priority = *upd.Priority
	}
	if upd.Status != nil {
		tsk.Status = *upd.Status
	}
	if upd.Type != nil {
		tsk.Type = *upd.Type
	}
	tsk, err = svc.repo.UpdateTask(ctx, tsk)
	return tsk, pkgerrors.Wrap(err, "updating task")
}

// UpdateStatus sets the status and returns the updated row.
func (svc *Service) UpdateStatus(ctx context.Context, id string, status Status) (Task, error) {
	if err := svc.validate.Var(status, "required,"+statusTag); err != nil {
		return Task{}, core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
	}
	tsk, err := svc.repo.UpdateTaskStatus(ctx, id, status)
	return tsk, pkgerrors.Wrap(err, "updating task status")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(svc.repo.DeleteTask(ctx, id), "deleting task")
}
