package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/task"
)

type taskRepository struct {
	exec core.DBExecutor
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(exec core.DBExecutor) task.Repository {
	return &taskRepository{exec: exec}
}

const (
	taskColumns = "id, user_id, course_id, title, description, due_date, priority, status, type, created_at"

	// priorities are stored as text: rank them so ordering follows low < medium < high.
	priorityRank = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END"
)

var taskOrderingColumns = map[string]bool{"due_date": true, priorityRank: true, "created_at": true, "title": true}

func taskOrderings(orderings []core.DBOrdering) []core.DBOrdering {
	ords := make([]core.DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		if !task.OrderingFields[ord.Field] {
			continue
		}
		if ord.Field == "priority" {
			ord.Field = priorityRank
		}
		ords = append(ords, ord)
	}
	return ords
}

func (repo *taskRepository) QueryTasks(ctx context.Context, userID string, orderings ...core.DBOrdering) ([]task.Task, error) {
	tasks := make([]task.Task, 0)
	q := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1" +
		core.OrderBy(taskOrderings(orderings), taskOrderingColumns, task.DefaultOrdering)
	err := repo.exec.SelectContext(ctx, &tasks, q, userID)
	return tasks, errors.Wrap(err, "selecting tasks")
}

func (repo *taskRepository) QueryDueTasks(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	tasks := make([]task.Task, 0)
	err := repo.exec.SelectContext(ctx, &tasks, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = $1 AND due_date >= $2 AND due_date < $3
		ORDER BY user_id, due_date`, task.StatusPending, from, to)
	return tasks, errors.Wrap(err, "selecting due tasks")
}

func (repo *taskRepository) GetTask(ctx context.Context, id string) (task.Task, error) {
	var tsk task.Task
	err := repo.exec.GetContext(ctx, &tsk, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	return tsk, notFound(err, task.ErrNotFound)
}

func (repo *taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (:id, :user_id, :course_id, :title, :description, :due_date, :priority, :status, :type, :created_at)`, tsk)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return tsk, nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	var updated task.Task
	err := repo.exec.GetContext(ctx, &updated, `
		UPDATE tasks
		SET course_id = $1, title = $2, description = $3, due_date = $4, priority = $5, status = $6, type = $7
		WHERE id = $8
		RETURNING `+taskColumns,
		tsk.CourseID, tsk.Title, tsk.Description, tsk.DueDate, tsk.Priority, tsk.Status, tsk.Type, tsk.ID)
	return updated, notFound(err, task.ErrNotFound)
}

func (repo *taskRepository) UpdateTaskStatus(ctx context.Context, id string, status task.Status) (task.Task, error) {
	var updated task.Task
	err := repo.exec.GetContext(ctx, &updated,
		"UPDATE tasks SET status = $1 WHERE id = $2 RETURNING "+taskColumns, status, id)
	return updated, notFound(err, task.ErrNotFound)
}

func (repo *taskRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	return affected(res, err, task.ErrNotFound)
}
