package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/note"
)

type noteRepository struct {
	exec core.DBExecutor
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(exec core.DBExecutor) note.Repository {
	return &noteRepository{exec: exec}
}

const noteColumns = "id, user_id, course_id, title, content, created_at, updated_at"

func (repo *noteRepository) QueryNotes(ctx context.Context, userID string, courseID *string) ([]note.Note, error) {
	notes := make([]note.Note, 0)
	err := repo.exec.SelectContext(ctx, &notes, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = $1 AND ($2::uuid IS NULL OR course_id = $2)
		ORDER BY updated_at DESC`, userID, courseID)
	return notes, errors.Wrap(err, "selecting notes")
}

func (repo *noteRepository) GetNote(ctx context.Context, id string) (note.Note, error) {
	var n note.Note
	err := repo.exec.GetContext(ctx, &n, "SELECT "+noteColumns+" FROM notes WHERE id = $1", id)
	return n, notFound(err, note.ErrNotFound)
}

func (repo *noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (:id, :user_id, :course_id, :title, :content, :created_at, :updated_at)`, n)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "inserting note")
	}
	return n, nil
}

func (repo *noteRepository) UpdateNote(ctx context.Context, n note.Note) (note.Note, error) {
	var updated note.Note
	err := repo.exec.GetContext(ctx, &updated, `
		UPDATE notes SET course_id = $1, title = $2, content = $3, updated_at = $4
		WHERE id = $5
		RETURNING `+noteColumns, n.CourseID, n.Title, n.Content, n.UpdatedAt, n.ID)
	return updated, notFound(err, note.ErrNotFound)
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, "DELETE FROM notes WHERE id = $1", id)
	return affected(res, err, note.ErrNotFound)
}
