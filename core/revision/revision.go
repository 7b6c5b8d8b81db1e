// Package revision suggests syllabus topics to revise next.
package revision

import (
	"fmt"
	"sort"
	"time"

	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/task"
)

var defaultHorizon = 7 * 24 * time.Hour

// Recommendation is an incomplete topic worth revising.
// Deadline is the due date of the nearest pending task of the topic's course, if any.
type Recommendation struct {
	CourseID     string        `json:"course_id"`
	CourseName   string        `json:"course_name"`
	ChapterID    string        `json:"chapter_id"`
	ChapterTitle string        `json:"chapter_title"`
	TopicID      string        `json:"topic_id"`
	TopicTitle   string        `json:"topic_title"`
	Deadline     *time.Time    `json:"deadline"`
	Priority     task.Priority `json:"priority"`
	Reason       string        `json:"reason"`
}

type candidate struct {
	rec      Recommendation
	deadline time.Time // zero when no deadline
	order    int
}

// Recommend proposes the incomplete topics of courses, courses with the nearest pending
// deadline first, topics in syllabus order. limit <= 0 means no limit.
func Recommend(courses []course.Course, tasks []task.Task, now time.Time, limit int) []Recommendation {
	deadlines := nearestDeadlines(tasks, now)

	var candidates []candidate
	for _, crs := range courses {
		if crs.Syllabus == nil {
			continue
		}
		deadline, hasDeadline := deadlines[crs.ID]
		for _, ch := range crs.Syllabus.Chapters {
			for _, tp := range ch.Topics {
				if tp.Completed {
					continue
				}
				rec := Recommendation{
					CourseID:     crs.ID,
					CourseName:   crs.Name,
					ChapterID:    ch.ID,
					ChapterTitle: ch.Title,
					TopicID:      tp.ID,
					TopicTitle:   tp.Title,
					Priority:     task.PriorityLow,
					Reason:       "not completed yet",
				}
				c := candidate{order: len(candidates)}
				if hasDeadline {
					d := deadline.DueDate
					rec.Deadline = &d
					rec.Priority = priorityFor(d, now)
					rec.Reason = fmt.Sprintf("%q is due %s", deadline.Title, d.Format("Mon Jan 2"))
					c.deadline = d
				}
				c.rec = rec
				candidates = append(candidates, c)
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		switch {
		case ci.deadline.IsZero() != cj.deadline.IsZero():
			return !ci.deadline.IsZero()
		case !ci.deadline.Equal(cj.deadline):
			return ci.deadline.Before(cj.deadline)
		}
		return ci.order < cj.order
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, c.rec)
	}
	return recs
}

// nearestDeadlines returns, per course, the pending task due soonest (overdue tasks included).
func nearestDeadlines(tasks []task.Task, now time.Time) map[string]task.Task {
	deadlines := make(map[string]task.Task)
	for _, tsk := range tasks {
		if tsk.CourseID == nil || tsk.Status != task.StatusPending {
			continue
		}
		curr, ok := deadlines[*tsk.CourseID]
		if !ok || tsk.DueDate.Before(curr.DueDate) {
			deadlines[*tsk.CourseID] = tsk
		}
	}
	return deadlines
}

func priorityFor(deadline, now time.Time) task.Priority {
	switch left := deadline.Sub(now); {
	case left <= 3*24*time.Hour:
		return task.PriorityHigh
	case left <= 7*24*time.Hour:
		return task.PriorityMedium
	}
	return task.PriorityLow
}

// ToTask turns rec into a revision task, due a day before its deadline
// (or a week from now without deadline), never in the past.
func ToTask(rec Recommendation, now time.Time) task.NewTask {
	due := now.Add(defaultHorizon)
	if rec.Deadline != nil {
		due = rec.Deadline.Add(-24 * time.Hour)
		if due.Before(now) {
			due = now.Add(time.Hour)
		}
	}
	courseID := rec.CourseID
	return task.NewTask{
		CourseID:    &courseID,
		Title:       "Revise: " + rec.TopicTitle,
		Description: fmt.Sprintf("%s / %s", rec.CourseName, rec.ChapterTitle),
		DueDate:     due.UTC(),
		Priority:    rec.Priority,
		Type:        task.TypeRevision,
	}
}
