package task

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studybuddy/core"
)

type (
	Priority string
	Status   string
	Type     string
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"

	TypeAssignment Type = "assignment"
	TypeExam       Type = "exam"
	TypeStudy      Type = "study"
	TypeRevision   Type = "revision"
	TypeOther      Type = "other"
)

var (
	priorityTag = "priority"
	statusTag   = "taskstatus"
	typeTag     = "tasktype"
)

// Rank orders priorities from high (3) to low (1).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Toggle flips pending <-> completed.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// InitValidators registers the task enum tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterEnum(validate, translator, priorityTag,
		string(PriorityLow), string(PriorityMedium), string(PriorityHigh))
	core.RegisterEnum(validate, translator, statusTag,
		string(StatusPending), string(StatusCompleted))
	core.RegisterEnum(validate, translator, typeTag,
		string(TypeAssignment), string(TypeExam), string(TypeStudy), string(TypeRevision), string(TypeOther))
}

type Task struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CourseID    *string   `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date" db:"due_date"` // UTC
	Priority    Priority  `json:"priority" db:"priority"`
	Status      Status    `json:"status" db:"status"`
	Type        Type      `json:"type" db:"type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	CourseID    *string   `json:"course_id"`
	Title       string    `json:"title" validate:"required,notblank,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Priority    Priority  `json:"priority" validate:"required,priority"`
	Type        Type      `json:"type" validate:"required,tasktype"`
}

func (nt *NewTask) Clean() {
	nt.CourseID = core.CleanStringPtr(nt.CourseID)
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	if nt.Type == "" {
		nt.Type = TypeOther
	}
}

// UpdateTask defines what information may be provided to modify an existing Task.
type UpdateTask struct {
	CourseID    *string    `json:"course_id"`
	Title       *string    `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *Priority  `json:"priority" validate:"omitempty,priority"`
	Status      *Status    `json:"status" validate:"omitempty,taskstatus"`
	Type        *Type      `json:"type" validate:"omitempty,tasktype"`
}
