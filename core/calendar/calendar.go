// Package calendar exports tasks as an iCalendar feed.
package calendar

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/trezcool/studybuddy/core/task"
)

const (
	ProductID    = "-//StudyBuddy//Tasks//EN"
	CalendarName = "StudyBuddy Tasks"
	ContentType  = "text/calendar; charset=utf-8"
	FileName     = "studybuddy-tasks.ics"

	// EventDuration is how long before its due date a task event starts.
	EventDuration = time.Hour
)

// Priority maps a task priority to the iCalendar PRIORITY value (1 highest, 9 lowest).
func Priority(p task.Priority) int {
	switch p {
	case task.PriorityHigh:
		return 1
	case task.PriorityLow:
		return 9
	}
	return 5
}

// Status maps a task status to the iCalendar STATUS value.
func Status(s task.Status) ics.ObjectStatus {
	if s == task.StatusCompleted {
		return ics.ObjectStatusCompleted
	}
	return ics.ObjectStatusConfirmed
}

// Build returns one VEVENT per task: DTEND is the due date, DTSTART one hour earlier.
func Build(tasks []task.Task, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(CalendarName)

	for _, tsk := range tasks {
		evt := cal.AddEvent(tsk.ID + "@studybuddy")
		evt.SetDtStampTime(now)
		evt.SetCreatedTime(tsk.CreatedAt)
		evt.SetStartAt(tsk.DueDate.Add(-EventDuration))
		evt.SetEndAt(tsk.DueDate)
		evt.SetSummary(tsk.Title)
		if desc := description(tsk); desc != "" {
			evt.SetDescription(desc)
		}
		evt.SetProperty(ics.ComponentPropertyPriority, strconv.Itoa(Priority(tsk.Priority)))
		evt.SetStatus(Status(tsk.Status))
		if tsk.Type != "" {
			evt.SetProperty(ics.ComponentPropertyCategories, strings.ToUpper(string(tsk.Type)))
		}
	}
	return cal
}

// Export serializes tasks into an iCalendar document.
func Export(tasks []task.Task, now time.Time) string {
	return Build(tasks, now).Serialize()
}

func description(tsk task.Task) string {
	parts := make([]string, 0, 3)
	if tsk.Description != "" {
		parts = append(parts, tsk.Description)
	}
	parts = append(parts, "Priority: "+string(tsk.Priority))
	if tsk.Type != "" {
		parts = append(parts, "Type: "+string(tsk.Type))
	}
	return strings.Join(parts, "\n")
}

// WebcalURL builds the subscription URL of a user's task feed.
// http(s) bases are rewritten to the webcal scheme.
func WebcalURL(base, userID string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "webcal://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "webcal://" + strings.TrimPrefix(base, "http://")
	case !strings.HasPrefix(base, "webcal://"):
		base = "webcal://" + base
	}
	return base + "/v1/calendar/" + url.PathEscape(userID) + ".ics"
}
