package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriority_Rank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, Priority("urgent").Rank())
}

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusPending.Toggle())
	assert.Equal(t, StatusPending, StatusCompleted.Toggle())
}

func TestNewTask_Clean(t *testing.T) {
	blank := "  "
	nt := NewTask{CourseID: &blank, Title: " Essay ", Description: " draft "}
	nt.Clean()
	assert.Nil(t, nt.CourseID)
	assert.Equal(t, "Essay", nt.Title)
	assert.Equal(t, "draft", nt.Description)
	assert.Equal(t, PriorityMedium, nt.Priority)
	assert.Equal(t, TypeOther, nt.Type)

	nt = NewTask{Priority: PriorityHigh, Type: TypeExam}
	nt.Clean()
	assert.Equal(t, PriorityHigh, nt.Priority)
	assert.Equal(t, TypeExam, nt.Type)
}
