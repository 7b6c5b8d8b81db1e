package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
)

func strPtr(s string) *string { return &s }

func TestDeleteCourse_cascades(t *testing.T) {
	ctx := context.Background()
	db, err := Open()
	require.NoError(t, err)

	crsRepo := NewCourseRepository(db)
	docRepo := NewDocumentRepository(db)
	tskRepo := NewTaskRepository(db)
	noteRepo := NewNoteRepository(db)
	cardRepo := NewFlashcardRepository(db)

	_, err = crsRepo.CreateCourse(ctx, course.Course{ID: "c1", UserID: "u1", Name: "Bio"})
	require.NoError(t, err)
	_, err = crsRepo.CreateCourse(ctx, course.Course{ID: "c2", UserID: "u1", Name: "Chem"})
	require.NoError(t, err)

	_, err = docRepo.CreateDocument(ctx, document.Document{ID: "d1", CourseID: "c1", UserID: "u1"})
	require.NoError(t, err)
	_, err = docRepo.CreateDocument(ctx, document.Document{ID: "d2", CourseID: "c2", UserID: "u1"})
	require.NoError(t, err)
	_, err = tskRepo.CreateTask(ctx, task.Task{ID: "t1", UserID: "u1", CourseID: strPtr("c1")})
	require.NoError(t, err)
	_, err = tskRepo.CreateTask(ctx, task.Task{ID: "t2", UserID: "u1"})
	require.NoError(t, err)
	_, err = noteRepo.CreateNote(ctx, note.Note{ID: "n1", UserID: "u1", CourseID: strPtr("c1")})
	require.NoError(t, err)
	_, err = cardRepo.SaveFlashcards(ctx, []flashcard.Flashcard{
		{ID: "f1", UserID: "u1", DocumentID: strPtr("d1")},
		{ID: "f2", UserID: "u1"},
	})
	require.NoError(t, err)

	require.NoError(t, crsRepo.DeleteCourse(ctx, "c1"))
	assert.ErrorIs(t, crsRepo.DeleteCourse(ctx, "c1"), course.ErrNotFound)

	docs, _ := docRepo.QueryDocuments(ctx, "c1")
	assert.Empty(t, docs)
	docs, _ = docRepo.QueryDocuments(ctx, "c2")
	assert.Len(t, docs, 1)

	tasks, _ := tskRepo.QueryTasks(ctx, "u1")
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)

	notes, _ := noteRepo.QueryNotes(ctx, "u1", nil)
	assert.Empty(t, notes)

	cards, _ := cardRepo.QueryFlashcards(ctx, "u1", nil)
	require.Len(t, cards, 1)
	assert.Equal(t, "f2", cards[0].ID)
}

func TestCreateDocument_unknownCourse(t *testing.T) {
	db, _ := Open()
	_, err := NewDocumentRepository(db).CreateDocument(context.Background(), document.Document{ID: "d1", CourseID: "nope"})
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestCourseRepository_syllabusIsCopied(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewCourseRepository(db)

	syl := &course.Syllabus{Chapters: []course.Chapter{{ID: "ch1", Title: "Cells", Topics: []course.Topic{{ID: "t1", Title: "Membrane"}}}}}
	_, err := repo.CreateCourse(ctx, course.Course{ID: "c1", UserID: "u1"})
	require.NoError(t, err)
	_, err = repo.UpdateSyllabus(ctx, "c1", syl, time.Now())
	require.NoError(t, err)

	syl.Chapters[0].Topics[0].Completed = true
	crs, err := repo.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, crs.Syllabus.Chapters[0].Topics[0].Completed)
}

func TestTaskRepository_QueryTasks(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewTaskRepository(db)

	now := time.Now().UTC()
	for _, tsk := range []task.Task{
		{ID: "a", UserID: "u1", Title: "b", DueDate: now.Add(2 * time.Hour), Priority: task.PriorityLow},
		{ID: "b", UserID: "u1", Title: "a", DueDate: now.Add(time.Hour), Priority: task.PriorityHigh},
		{ID: "c", UserID: "u1", Title: "c", DueDate: now.Add(3 * time.Hour), Priority: task.PriorityMedium},
		{ID: "d", UserID: "u2", Title: "d", DueDate: now},
	} {
		_, err := repo.CreateTask(ctx, tsk)
		require.NoError(t, err)
	}

	ids := func(tasks []task.Task) []string {
		out := make([]string, 0, len(tasks))
		for _, tsk := range tasks {
			out = append(out, tsk.ID)
		}
		return out
	}

	tests := []struct {
		name      string
		orderings []core.DBOrdering
		want      []string
	}{
		{name: "default: due date", want: []string{"b", "a", "c"}},
		{name: "priority desc", orderings: []core.DBOrdering{{Field: "priority"}}, want: []string{"b", "c", "a"}},
		{name: "title asc", orderings: []core.DBOrdering{{Field: "title", Ascending: true}}, want: []string{"b", "a", "c"}},
		{name: "unknown field", orderings: []core.DBOrdering{{Field: "lol"}}, want: []string{"b", "a", "c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tasks, err := repo.QueryTasks(ctx, "u1", tc.orderings...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(tasks))
		})
	}

	due, err := repo.QueryDueTasks(ctx, now, now.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, ids(due))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewUserRepository(db)

	_, err := repo.CreateIdentity(ctx, user.Identity{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)
	_, err = repo.CreateIdentity(ctx, user.Identity{ID: "u2", Email: "a@b.c"})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	_, err = repo.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, user.ErrProfileNotFound)
	_, err = repo.UpsertProfile(ctx, user.Profile{UserID: "u1", Name: "Ada"})
	require.NoError(t, err)
	_, err = repo.UpsertProfile(ctx, user.Profile{UserID: "u1", Name: "Ada L."})
	require.NoError(t, err)
	prof, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", prof.Name)

	at := time.Now().UTC()
	require.NoError(t, repo.SetLastLogin(ctx, "u1", at))
	ident, err := repo.GetIdentityByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	require.NotNil(t, ident.LastLogin)
	assert.True(t, at.Equal(*ident.LastLogin))

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "nope", nil), user.ErrNotFound)
}
