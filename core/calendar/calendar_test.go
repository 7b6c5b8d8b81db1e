package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core/task"
)

func TestExport(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	due := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: "t1", Title: "Essay", DueDate: due, Priority: task.PriorityHigh, Status: task.StatusPending, Type: task.TypeAssignment, CreatedAt: now},
		{ID: "t2", Title: "Read ch. 2", DueDate: due.AddDate(0, 0, 1), Priority: task.PriorityLow, Status: task.StatusCompleted, CreatedAt: now},
		{ID: "t3", Title: "Flashcards", Description: "bio", DueDate: due.AddDate(0, 0, 2), Priority: task.PriorityMedium, Status: task.StatusPending, CreatedAt: now},
	}

	out := Export(tasks, now)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	tests := []struct {
		idx      int
		priority string
		status   string
	}{
		{idx: 0, priority: "1", status: "CONFIRMED"},
		{idx: 1, priority: "9", status: "COMPLETED"},
		{idx: 2, priority: "5", status: "CONFIRMED"},
	}
	for _, tc := range tests {
		evt := events[tc.idx]
		t.Run(tasks[tc.idx].Title, func(t *testing.T) {
			assert.Equal(t, tasks[tc.idx].ID+"@studybuddy", evt.Id())
			assert.Equal(t, tc.priority, evt.GetProperty(ics.ComponentPropertyPriority).Value)
			assert.Equal(t, tc.status, evt.GetProperty(ics.ComponentPropertyStatus).Value)
			assert.Equal(t, tasks[tc.idx].Title, evt.GetProperty(ics.ComponentPropertySummary).Value)

			start, err := evt.GetStartAt()
			require.NoError(t, err)
			end, err := evt.GetEndAt()
			require.NoError(t, err)
			assert.True(t, end.Equal(tasks[tc.idx].DueDate))
			assert.Equal(t, time.Hour, end.Sub(start))
		})
	}
}

func TestExport_noTasks(t *testing.T) {
	out := Export(nil, time.Now())
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestWebcalURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "https://studybuddy.app/", want: "webcal://studybuddy.app/v1/calendar/u1.ics"},
		{base: "http://localhost:8000", want: "webcal://localhost:8000/v1/calendar/u1.ics"},
		{base: "webcal://localhost:8000", want: "webcal://localhost:8000/v1/calendar/u1.ics"},
		{base: "studybuddy.app", want: "webcal://studybuddy.app/v1/calendar/u1.ics"},
	}
	for _, tc := range tests {
		t.Run(tc.base, func(t *testing.T) {
			assert.Equal(t, tc.want, WebcalURL(tc.base, "u1"))
		})
	}
}
