package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
)

type documentRepository struct {
	exec core.DBExecutor
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(exec core.DBExecutor) document.Repository {
	return &documentRepository{exec: exec}
}

const documentColumns = "id, user_id, course_id, chapter_id, topic_id, name, storage_path, file_type, content, tags, created_at"

func (repo *documentRepository) QueryDocuments(ctx context.Context, courseID string) ([]document.Document, error) {
	docs := make([]document.Document, 0)
	err := repo.exec.SelectContext(ctx, &docs,
		"SELECT "+documentColumns+" FROM documents WHERE course_id = $1 ORDER BY created_at DESC", courseID)
	return docs, errors.Wrap(err, "selecting documents")
}

func (repo *documentRepository) GetDocument(ctx context.Context, id string) (document.Document, error) {
	var doc document.Document
	err := repo.exec.GetContext(ctx, &doc, "SELECT "+documentColumns+" FROM documents WHERE id = $1", id)
	return doc, notFound(err, document.ErrNotFound)
}

func (repo *documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (:id, :user_id, :course_id, :chapter_id, :topic_id, :name, :storage_path, :file_type, :content, :tags, :created_at)`, doc)
	if isForeignKeyViolation(err) {
		return document.Document{}, course.ErrNotFound
	}
	if err != nil {
		return document.Document{}, errors.Wrap(err, "inserting document")
	}
	return doc, nil
}

func (repo *documentRepository) SetContent(ctx context.Context, id string, content *string) (document.Document, error) {
	var doc document.Document
	err := repo.exec.GetContext(ctx, &doc,
		"UPDATE documents SET content = $1 WHERE id = $2 RETURNING "+documentColumns, content, id)
	return doc, notFound(err, document.ErrNotFound)
}

func (repo *documentRepository) DeleteDocument(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	return affected(res, err, document.ErrNotFound)
}
