package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/task"
)

type taskRepository struct {
	db *table[task.Task]
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.tasks}
}

func (repo *taskRepository) QueryTasks(_ context.Context, userID string, orderings ...core.DBOrdering) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := repo.db.filter(func(t task.Task) bool { return t.UserID == userID })
	sortTasks(tasks, orderings)
	return tasks, nil
}

func sortTasks(tasks []task.Task, orderings []core.DBOrdering) {
	var ords []core.DBOrdering
	for _, ord := range orderings {
		if task.OrderingFields[ord.Field] {
			ords = append(ords, ord)
		}
	}
	if len(ords) == 0 {
		ords = []core.DBOrdering{task.DefaultOrdering}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		for _, ord := range ords {
			cmp := compareTasks(tasks[i], tasks[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
}

func compareTasks(a, b task.Task, field string) int {
	switch field {
	case "due_date":
		return a.DueDate.Compare(b.DueDate)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "priority":
		return a.Priority.Rank() - b.Priority.Rank()
	case "title":
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	}
	return 0
}

func (repo *taskRepository) QueryDueTasks(_ context.Context, from, to time.Time) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := repo.db.filter(func(t task.Task) bool {
		return t.Status == task.StatusPending && !t.DueDate.Before(from) && t.DueDate.Before(to)
	})
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].UserID != tasks[j].UserID {
			return tasks[i].UserID < tasks[j].UserID
		}
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks, nil
}

func (repo *taskRepository) GetTask(_ context.Context, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if idx := repo.db.index(func(t task.Task) bool { return t.ID == id }); idx >= 0 {
		return repo.db.rows[idx], nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) CreateTask(_ context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, tsk)
	return tsk, nil
}

func (repo *taskRepository) update(id string, update func(*task.Task)) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	idx := repo.db.index(func(t task.Task) bool { return t.ID == id })
	if idx < 0 {
		return task.Task{}, task.ErrNotFound
	}
	update(&repo.db.rows[idx])
	return repo.db.rows[idx], nil
}

func (repo *taskRepository) UpdateTask(_ context.Context, tsk task.Task) (task.Task, error) {
	return repo.update(tsk.ID, func(t *task.Task) {
		createdAt, userID := t.CreatedAt, t.UserID
		*t = tsk
		t.CreatedAt, t.UserID = createdAt, userID
	})
}

func (repo *taskRepository) UpdateTaskStatus(_ context.Context, id string, status task.Status) (task.Task, error) {
	return repo.update(id, func(t *task.Task) { t.Status = status })
}

func (repo *taskRepository) DeleteTask(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if removed := repo.db.remove(func(t task.Task) bool { return t.ID == id }); len(removed) == 0 {
		return task.ErrNotFound
	}
	return nil
}
