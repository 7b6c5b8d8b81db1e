package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/note"
)

// GetNotes lists the user's notes, most recently updated first, optionally for one course.
func (c *Client) GetNotes(ctx context.Context, userID string, courseID *string) core.Result[[]note.Note] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]note.Note](err)
	}
	notes, err := c.svcs.Notes.Query(ctx, userID, core.CleanStringPtr(courseID))
	return result(c, notes, err)
}

func (c *Client) CreateNote(ctx context.Context, userID string, nn note.NewNote) core.Result[note.Note] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[note.Note](err)
	}
	if err := c.optionalCourse(ctx, userID, nn.CourseID); err != nil {
		return core.Fail[note.Note](err)
	}
	n, err := c.svcs.Notes.Create(ctx, userID, nn)
	return result(c, n, err)
}

func (c *Client) UpdateNote(ctx context.Context, id string, un note.UpdateNote) core.Result[note.Note] {
	n, err := c.ownNote(ctx, id)
	if err != nil {
		return core.Fail[note.Note](err)
	}
	if err = c.optionalCourse(ctx, n.UserID, un.CourseID); err != nil {
		return core.Fail[note.Note](err)
	}
	n, err = c.svcs.Notes.Update(ctx, id, un)
	return result(c, n, err)
}

func (c *Client) DeleteNote(ctx context.Context, id string) core.Result[core.Void] {
	if _, err := c.ownNote(ctx, id); err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.Notes.Delete(ctx, id))
}

func (c *Client) ownNote(ctx context.Context, id string) (note.Note, error) {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return note.Note{}, err
	}
	n, err := c.svcs.Notes.Get(ctx, id)
	if err != nil {
		return note.Note{}, err
	}
	return n, owned(uid, n.UserID, note.ErrNotFound)
}
