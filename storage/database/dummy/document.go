package dummydb

import (
	"context"

	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
)

type documentRepository struct {
	db *DB
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) document.Repository {
	return &documentRepository{db: db}
}

func (repo *documentRepository) QueryDocuments(_ context.Context, courseID string) ([]document.Document, error) {
	repo.db.documents.RLock()
	defer repo.db.documents.RUnlock()
	return newest(repo.db.documents.filter(func(d document.Document) bool { return d.CourseID == courseID })), nil
}

func (repo *documentRepository) GetDocument(_ context.Context, id string) (document.Document, error) {
	repo.db.documents.RLock()
	defer repo.db.documents.RUnlock()

	if idx := repo.db.documents.index(func(d document.Document) bool { return d.ID == id }); idx >= 0 {
		return repo.db.documents.rows[idx], nil
	}
	return document.Document{}, document.ErrNotFound
}

func (repo *documentRepository) CreateDocument(_ context.Context, doc document.Document) (document.Document, error) {
	repo.db.courses.RLock()
	exists := repo.db.courses.index(func(c course.Course) bool { return c.ID == doc.CourseID }) >= 0
	repo.db.courses.RUnlock()
	if !exists {
		return document.Document{}, course.ErrNotFound
	}

	repo.db.documents.Lock()
	defer repo.db.documents.Unlock()
	repo.db.documents.rows = append(repo.db.documents.rows, doc)
	return doc, nil
}

func (repo *documentRepository) SetContent(_ context.Context, id string, content *string) (document.Document, error) {
	repo.db.documents.Lock()
	defer repo.db.documents.Unlock()

	idx := repo.db.documents.index(func(d document.Document) bool { return d.ID == id })
	if idx < 0 {
		return document.Document{}, document.ErrNotFound
	}
	repo.db.documents.rows[idx].Content = content
	return repo.db.documents.rows[idx], nil
}

func (repo *documentRepository) DeleteDocument(_ context.Context, id string) error {
	repo.db.documents.Lock()
	removed := repo.db.documents.remove(func(d document.Document) bool { return d.ID == id })
	repo.db.documents.Unlock()

	if len(removed) == 0 {
		return document.ErrNotFound
	}
	deleteDocumentFlashcards(repo.db, removed...)
	return nil
}
