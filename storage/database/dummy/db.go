// Package dummydb is an in-memory database used by tests and the local terminal client.
// Deleting a course cascades to its documents, tasks and notes; deleting a document
// cascades to its flashcards, the same way the SQL schema does.
package dummydb

import (
	"sync"

	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/journal"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/core/voicescript"
)

type (
	DB struct {
		identities  *table[user.Identity]
		profiles    *table[user.Profile]
		courses     *table[course.Course]
		documents   *table[document.Document]
		tasks       *table[task.Task]
		notes       *table[note.Note]
		flashcards  *table[flashcard.Flashcard]
		entries     *table[journal.Entry]
		settings    *table[journal.Settings]
		voiceScript *table[voicescript.VoiceScript]
	}

	// table keeps rows in insertion order.
	table[T any] struct {
		sync.RWMutex
		rows []T
	}
)

func Open() (*DB, error) {
	db := &DB{
		identities:  &table[user.Identity]{},
		profiles:    &table[user.Profile]{},
		courses:     &table[course.Course]{},
		documents:   &table[document.Document]{},
		tasks:       &table[task.Task]{},
		notes:       &table[note.Note]{},
		flashcards:  &table[flashcard.Flashcard]{},
		entries:     &table[journal.Entry]{},
		settings:    &table[journal.Settings]{},
		voiceScript: &table[voicescript.VoiceScript]{},
	}
	return db, nil
}

// index returns the position of the first row matching, or -1. Callers hold the lock.
func (t *table[T]) index(match func(T) bool) int {
	for i, row := range t.rows {
		if match(row) {
			return i
		}
	}
	return -1
}

// filter returns a copy of the rows matching. Callers hold the lock.
func (t *table[T]) filter(match func(T) bool) []T {
	rows := make([]T, 0)
	for _, row := range t.rows {
		if match(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// remove deletes the rows matching and returns them. Callers hold the lock.
func (t *table[T]) remove(match func(T) bool) []T {
	var removed []T
	kept := t.rows[:0]
	for _, row := range t.rows {
		if match(row) {
			removed = append(removed, row)
		} else {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return removed
}

func newest[T any](rows []T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}
