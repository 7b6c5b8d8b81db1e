package dummydb

import (
	"context"
	"time"

	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/task"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func cloneCourse(crs course.Course) course.Course {
	crs.Syllabus = crs.Syllabus.Clone()
	return crs
}

func (repo *courseRepository) QueryCourses(_ context.Context, userID string) ([]course.Course, error) {
	repo.db.courses.RLock()
	defer repo.db.courses.RUnlock()

	courses := newest(repo.db.courses.filter(func(c course.Course) bool { return c.UserID == userID }))
	for i := range courses {
		courses[i] = cloneCourse(courses[i])
	}
	return courses, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (course.Course, error) {
	repo.db.courses.RLock()
	defer repo.db.courses.RUnlock()

	if idx := repo.db.courses.index(func(c course.Course) bool { return c.ID == id }); idx >= 0 {
		return cloneCourse(repo.db.courses.rows[idx]), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.courses.Lock()
	defer repo.db.courses.Unlock()

	repo.db.courses.rows = append(repo.db.courses.rows, cloneCourse(crs))
	return crs, nil
}

func (repo *courseRepository) update(id string, update func(*course.Course)) (course.Course, error) {
	repo.db.courses.Lock()
	defer repo.db.courses.Unlock()

	idx := repo.db.courses.index(func(c course.Course) bool { return c.ID == id })
	if idx < 0 {
		return course.Course{}, course.ErrNotFound
	}
	update(&repo.db.courses.rows[idx])
	return cloneCourse(repo.db.courses.rows[idx]), nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	return repo.update(crs.ID, func(c *course.Course) {
		c.Name = crs.Name
		c.Description = crs.Description
		c.UpdatedAt = crs.UpdatedAt
	})
}

func (repo *courseRepository) UpdateSyllabus(_ context.Context, id string, syllabus *course.Syllabus, updatedAt time.Time) (course.Course, error) {
	return repo.update(id, func(c *course.Course) {
		c.Syllabus = syllabus.Clone()
		c.UpdatedAt = updatedAt
	})
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	db := repo.db
	db.courses.Lock()
	defer db.courses.Unlock()

	if removed := db.courses.remove(func(c course.Course) bool { return c.ID == id }); len(removed) == 0 {
		return course.ErrNotFound
	}

	db.documents.Lock()
	docs := db.documents.remove(func(d document.Document) bool { return d.CourseID == id })
	db.documents.Unlock()
	deleteDocumentFlashcards(db, docs...)

	db.tasks.Lock()
	db.tasks.remove(func(t task.Task) bool { return t.CourseID != nil && *t.CourseID == id })
	db.tasks.Unlock()

	db.notes.Lock()
	db.notes.remove(func(n note.Note) bool { return n.CourseID != nil && *n.CourseID == id })
	db.notes.Unlock()
	return nil
}

func deleteDocumentFlashcards(db *DB, docs ...document.Document) {
	if len(docs) == 0 {
		return
	}
	ids := make(map[string]bool, len(docs))
	for _, doc := range docs {
		ids[doc.ID] = true
	}
	db.flashcards.Lock()
	defer db.flashcards.Unlock()
	db.flashcards.remove(func(f flashcard.Flashcard) bool { return f.DocumentID != nil && ids[*f.DocumentID] })
}
