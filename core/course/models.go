package course

import (
	"database/sql/driver"
	"time"

	"github.com/trezcool/studybuddy/core"
)

type Course struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Syllabus    *Syllabus `json:"syllabus" db:"syllabus"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Syllabus is an ordered list of chapters, stored as a single JSON document on the course.
type Syllabus struct {
	Chapters []Chapter `json:"chapters"`
}

type Chapter struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Topics []Topic `json:"topics"`
}

type Topic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (s *Syllabus) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return core.JSONValue(s)
}

func (s *Syllabus) Scan(src interface{}) error {
	return core.ScanJSON(src, s)
}

// Clone returns a deep copy so edits can be applied without touching the original.
func (s *Syllabus) Clone() *Syllabus {
	if s == nil {
		return nil
	}
	clone := &Syllabus{Chapters: make([]Chapter, len(s.Chapters))}
	for i, ch := range s.Chapters {
		ch.Topics = append([]Topic(nil), ch.Topics...)
		clone.Chapters[i] = ch
	}
	return clone
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (nc *NewCourse) Clean() {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (uc *UpdateCourse) Clean() {
	if uc.Name != nil {
		name := core.CleanString(*uc.Name)
		uc.Name = &name
	}
	if uc.Description != nil {
		desc := core.CleanString(*uc.Description)
		uc.Description = &desc
	}
}
