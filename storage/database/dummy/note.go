package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/studybuddy/core/note"
)

type noteRepository struct {
	db *table[note.Note]
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *DB) note.Repository {
	return &noteRepository{db: db.notes}
}

func (repo *noteRepository) QueryNotes(_ context.Context, userID string, courseID *string) ([]note.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := newest(repo.db.filter(func(n note.Note) bool {
		if n.UserID != userID {
			return false
		}
		return courseID == nil || (n.CourseID != nil && *n.CourseID == *courseID)
	}))
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, nil
}

func (repo *noteRepository) GetNote(_ context.Context, id string) (note.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if idx := repo.db.index(func(n note.Note) bool { return n.ID == id }); idx >= 0 {
		return repo.db.rows[idx], nil
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *noteRepository) CreateNote(_ context.Context, n note.Note) (note.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, n)
	return n, nil
}

func (repo *noteRepository) UpdateNote(_ context.Context, n note.Note) (note.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	idx := repo.db.index(func(row note.Note) bool { return row.ID == n.ID })
	if idx < 0 {
		return note.Note{}, note.ErrNotFound
	}
	row := &repo.db.rows[idx]
	row.CourseID = n.CourseID
	row.Title = n.Title
	row.Content = n.Content
	row.UpdatedAt = n.UpdatedAt
	return *row, nil
}

func (repo *noteRepository) DeleteNote(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if removed := repo.db.remove(func(n note.Note) bool { return n.ID == id }); len(removed) == 0 {
		return note.ErrNotFound
	}
	return nil
}
