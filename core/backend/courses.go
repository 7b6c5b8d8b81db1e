package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
)

func (c *Client) GetCourses(ctx context.Context, userID string) core.Result[[]course.Course] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]course.Course](err)
	}
	courses, err := c.svcs.Courses.Query(ctx, userID)
	return result(c, courses, err)
}

func (c *Client) GetCourse(ctx context.Context, id string) core.Result[course.Course] {
	_, crs, err := c.ownCourse(ctx, id)
	return result(c, crs, err)
}

func (c *Client) CreateCourse(ctx context.Context, userID string, nc course.NewCourse) core.Result[course.Course] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[course.Course](err)
	}
	crs, err := c.svcs.Courses.Create(ctx, userID, nc)
	return result(c, crs, err)
}

func (c *Client) UpdateCourse(ctx context.Context, id string, uc course.UpdateCourse) core.Result[course.Course] {
	if _, _, err := c.ownCourse(ctx, id); err != nil {
		return core.Fail[course.Course](err)
	}
	crs, err := c.svcs.Courses.Update(ctx, id, uc)
	return result(c, crs, err)
}

// UpdateSyllabus replaces the whole syllabus: concurrent edits are last-write-wins.
func (c *Client) UpdateSyllabus(ctx context.Context, id string, syllabus *course.Syllabus) core.Result[course.Course] {
	if _, _, err := c.ownCourse(ctx, id); err != nil {
		return core.Fail[course.Course](err)
	}
	crs, err := c.svcs.Courses.UpdateSyllabus(ctx, id, syllabus)
	return result(c, crs, err)
}

// DeleteCourse removes the course files, then the course. Documents, tasks and notes of
// the course go with it.
func (c *Client) DeleteCourse(ctx context.Context, id string) core.Result[core.Void] {
	if _, _, err := c.ownCourse(ctx, id); err != nil {
		return void(c, err)
	}
	if err := c.svcs.Documents.DeleteCourseBlobs(ctx, id); err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.Courses.Delete(ctx, id))
}
