package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/task"
)

// GetTasks lists the user's tasks, by due date unless orderings say otherwise.
func (c *Client) GetTasks(ctx context.Context, userID string, orderings ...core.DBOrdering) core.Result[[]task.Task] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]task.Task](err)
	}
	tasks, err := c.svcs.Tasks.Query(ctx, userID, orderings...)
	return result(c, tasks, err)
}

func (c *Client) GetTask(ctx context.Context, id string) core.Result[task.Task] {
	tsk, err := c.ownTask(ctx, id)
	return result(c, tsk, err)
}

func (c *Client) CreateTask(ctx context.Context, userID string, nt task.NewTask) core.Result[task.Task] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[task.Task](err)
	}
	if err := c.optionalCourse(ctx, userID, nt.CourseID); err != nil {
		return core.Fail[task.Task](err)
	}
	tsk, err := c.svcs.Tasks.Create(ctx, userID, nt)
	return result(c, tsk, err)
}

func (c *Client) UpdateTask(ctx context.Context, id string, upd task.UpdateTask) core.Result[task.Task] {
	tsk, err := c.ownTask(ctx, id)
	if err != nil {
		return core.Fail[task.Task](err)
	}
	if err = c.optionalCourse(ctx, tsk.UserID, upd.CourseID); err != nil {
		return core.Fail[task.Task](err)
	}
	tsk, err = c.svcs.Tasks.Update(ctx, id, upd)
	return result(c, tsk, err)
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status task.Status) core.Result[task.Task] {
	if _, err := c.ownTask(ctx, id); err != nil {
		return core.Fail[task.Task](err)
	}
	tsk, err := c.svcs.Tasks.UpdateStatus(ctx, id, status)
	return result(c, tsk, err)
}

func (c *Client) DeleteTask(ctx context.Context, id string) core.Result[core.Void] {
	if _, err := c.ownTask(ctx, id); err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.Tasks.Delete(ctx, id))
}

func (c *Client) ownTask(ctx context.Context, id string) (task.Task, error) {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return task.Task{}, err
	}
	tsk, err := c.svcs.Tasks.Get(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	return tsk, owned(uid, tsk.UserID, task.ErrNotFound)
}
