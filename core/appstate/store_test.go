package appstate_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/appstate"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/revision"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/core/voicescript"
	"github.com/trezcool/studybuddy/tests"
)

// countingBackend counts the calls made to the backend, and can run a hook in the middle
// of the fetches (while the store is waiting for the backend).
type countingBackend struct {
	appstate.Backend

	mu     sync.Mutex
	calls  map[string]int
	during func(name string)
}

func newCountingBackend(b appstate.Backend) *countingBackend {
	return &countingBackend{Backend: b, calls: make(map[string]int)}
}

func (b *countingBackend) count(name string) {
	b.mu.Lock()
	b.calls[name]++
	hook := b.during
	b.mu.Unlock()
	if hook != nil {
		hook(name)
	}
}

func (b *countingBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *countingBackend) GetCourses(ctx context.Context, userID string) core.Result[[]course.Course] {
	b.count("GetCourses")
	return b.Backend.GetCourses(ctx, userID)
}

func (b *countingBackend) GetTasks(ctx context.Context, userID string, orderings ...core.DBOrdering) core.Result[[]task.Task] {
	b.count("GetTasks")
	return b.Backend.GetTasks(ctx, userID, orderings...)
}

func (b *countingBackend) GetNotes(ctx context.Context, userID string, courseID *string) core.Result[[]note.Note] {
	b.count("GetNotes")
	return b.Backend.GetNotes(ctx, userID, courseID)
}

func (b *countingBackend) GetDocuments(ctx context.Context, courseID string) core.Result[[]document.Document] {
	b.count("GetDocuments")
	return b.Backend.GetDocuments(ctx, courseID)
}

func (b *countingBackend) GetVoiceScripts(ctx context.Context, userID string) core.Result[[]voicescript.VoiceScript] {
	b.count("GetVoiceScripts")
	return b.Backend.GetVoiceScripts(ctx, userID)
}

type fakeAI struct {
	calls   int
	token   string
	content string
}

func (ai *fakeAI) DocumentAction(_ context.Context, token string, action document.Action, content string) (string, error) {
	ai.calls++
	ai.token, ai.content = token, content
	return " " + string(action) + " done ", nil
}

func setup(t *testing.T) (*testutil.Env, user.User) {
	env := testutil.Setup(t)
	return env, env.CreateUser(t, "ada")
}

// signedIn returns a store whose user is loaded.
func signedIn(t *testing.T, env *testutil.Env, usr user.User, opts appstate.Options) (*appstate.Store, *countingBackend) {
	b := newCountingBackend(env.SignIn(t, usr))
	s := appstate.New(b, opts)
	s.InitAuth(context.Background())
	require.NotNil(t, s.Snapshot().User)
	return s, b
}

func TestStore_fetchesWithoutUser(t *testing.T) {
	env, _ := setup(t)
	b := newCountingBackend(env.Client)
	s := appstate.New(b, appstate.Options{})
	notified := 0
	s.Subscribe(func(appstate.State) { notified++ })

	ctx := context.Background()
	courseID := "c1"
	s.FetchCourses(ctx)
	s.FetchTasks(ctx)
	s.FetchNotes(ctx, &courseID)
	s.FetchDocuments(ctx, courseID)
	s.FetchVoiceScripts(ctx)

	assert.Zero(t, b.total())
	assert.Zero(t, notified)
	assert.Equal(t, appstate.State{}, s.Snapshot())
}

func TestStore_InitAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		env, _ := setup(t)
		b := newCountingBackend(env.Client)
		s := appstate.New(b, appstate.Options{})
		s.InitAuth(ctx)
		assert.Nil(t, s.Snapshot().User)
		assert.Empty(t, s.Snapshot().Error)
		assert.Zero(t, b.total())
	})

	t.Run("twice does not duplicate", func(t *testing.T) {
		env, usr := setup(t)
		c := env.SignIn(t, usr)
		require.True(t, c.CreateCourse(ctx, usr.ID, course.NewCourse{Name: "Biology"}).OK())
		require.True(t, c.CreateCourse(ctx, usr.ID, course.NewCourse{Name: "Chemistry"}).OK())
		require.True(t, c.CreateTask(ctx, usr.ID, task.NewTask{Title: "Lab report", DueDate: time.Now().Add(time.Hour)}).OK())

		s := appstate.New(c, appstate.Options{})
		s.InitAuth(ctx)
		s.InitAuth(ctx)

		st := s.Snapshot()
		require.NotNil(t, st.User)
		assert.Equal(t, usr.ID, st.User.ID)
		assert.Len(t, st.Courses, 2)
		assert.Len(t, st.Tasks, 1)
		assert.False(t, st.IsLoading)
	})
}

func TestStore_SignIn(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	s := appstate.New(env.Client, appstate.Options{})

	s.SignIn(ctx, usr.Email, "wrong")
	st := s.Snapshot()
	assert.Nil(t, st.User)
	assert.Equal(t, user.ErrInvalidCredentials.Error(), st.Error)

	s.SignIn(ctx, usr.Email, testutil.Password)
	st = s.Snapshot()
	require.NotNil(t, st.User)
	assert.Empty(t, st.Error)
	assert.NotNil(t, st.Courses, "courses are fetched after sign-in")
	assert.NotNil(t, st.Tasks)
}

func TestStore_SignUp(t *testing.T) {
	env := testutil.Setup(t)
	s := appstate.New(env.Client, appstate.Options{})
	s.SignUp(context.Background(), "new@test.com", testutil.Password, "New")
	st := s.Snapshot()
	require.NotNil(t, st.User, st.Error)
	assert.Equal(t, "New", st.User.Name)
}

func TestStore_SignOut(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	s, _ := signedIn(t, env, usr, appstate.Options{})

	s.CreateCourse(ctx, course.NewCourse{Name: "Biology"})
	crs := s.Snapshot().Courses[0]
	s.SelectCourse(ctx, crs.ID)
	s.CreateTask(ctx, task.NewTask{Title: "Read", DueDate: time.Now().Add(time.Hour), CourseID: &crs.ID})
	s.CreateNote(ctx, note.NewNote{Title: "Cells", CourseID: &crs.ID})
	s.UploadDocument(ctx, crs.ID, document.File{Name: "a.txt", Body: strings.NewReader("text")})
	s.CreateVoiceScript(ctx, "Intro", "Hello class")

	st := s.Snapshot()
	require.Empty(t, st.Error)
	require.NotNil(t, st.CurrentCourse)
	require.Len(t, st.Tasks, 1)
	require.Len(t, st.Notes, 1)
	require.Len(t, st.Documents, 1)
	require.Len(t, st.VoiceScripts, 1)

	s.SignOut(ctx)
	assert.Equal(t, appstate.State{}, s.Snapshot())
}

func TestStore_mutationsReconcileLocally(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	s, b := signedIn(t, env, usr, appstate.Options{})
	fetches := b.total()

	s.CreateCourse(ctx, course.NewCourse{Name: "Biology"})
	s.CreateCourse(ctx, course.NewCourse{Name: "Chemistry"})
	st := s.Snapshot()
	require.Len(t, st.Courses, 2)
	assert.Equal(t, "Chemistry", st.Courses[0].Name, "created rows are prepended")
	bio := st.Courses[1]

	name := "Biology 101"
	s.UpdateCourse(ctx, bio.ID, course.UpdateCourse{Name: &name})
	assert.Equal(t, name, s.Snapshot().Courses[1].Name)

	s.CreateTask(ctx, task.NewTask{Title: "Quiz", DueDate: time.Now().Add(time.Hour), CourseID: &bio.ID})
	tsk := s.Snapshot().Tasks[0]
	s.ToggleTaskStatus(ctx, tsk.ID)
	assert.Equal(t, task.StatusCompleted, s.Snapshot().Tasks[0].Status)
	s.ToggleTaskStatus(ctx, tsk.ID)
	assert.Equal(t, task.StatusPending, s.Snapshot().Tasks[0].Status)

	s.CreateVoiceScript(ctx, "Intro", "Hello")
	vs := s.Snapshot().VoiceScripts[0]
	title := "Welcome"
	s.UpdateVoiceScript(ctx, vs.ID, voicescript.UpdateVoiceScript{Title: &title})
	assert.Equal(t, "Welcome", s.Snapshot().VoiceScripts[0].Title)
	s.DeleteVoiceScript(ctx, vs.ID)
	assert.Empty(t, s.Snapshot().VoiceScripts)

	s.DeleteCourse(ctx, bio.ID)
	st = s.Snapshot()
	require.Len(t, st.Courses, 1)
	assert.Equal(t, "Chemistry", st.Courses[0].Name)
	assert.Empty(t, st.Tasks, "tasks of a deleted course go with it")

	assert.Equal(t, fetches, b.total(), "mutations never refetch")
	assert.Empty(t, st.Error)
}

func TestStore_errors(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	s, _ := signedIn(t, env, usr, appstate.Options{})

	s.CreateCourse(ctx, course.NewCourse{Name: "  "})
	st := s.Snapshot()
	assert.Contains(t, st.Error, "name")
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Courses)

	s.ToggleTaskStatus(ctx, "unknown")
	assert.Equal(t, appstate.ErrUnknownItem.Error(), s.Snapshot().Error)

	log := s.Log()
	require.NotEmpty(t, log)
	assert.Equal(t, "toggleTaskStatus", log[len(log)-1].Name)
	assert.NotEmpty(t, log[len(log)-1].Err)
}

func TestStore_EditSyllabus(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	s, _ := signedIn(t, env, usr, appstate.Options{})
	s.CreateCourse(ctx, course.NewCourse{Name: "Biology"})
	crs := s.Snapshot().Courses[0]
	s.SelectCourse(ctx, crs.ID)

	s.EditSyllabus(ctx, crs.ID, func(syl *course.Syllabus) error {
		ch, err := syl.AddChapter("Cells")
		if err != nil {
			return err
		}
		_, err = syl.AddTopic(ch.ID, "Mitosis")
		return err
	})
	st := s.Snapshot()
	require.Empty(t, st.Error)
	require.NotNil(t, st.Courses[0].Syllabus)
	assert.Equal(t, "Mitosis", st.Courses[0].Syllabus.Chapters[0].Topics[0].Title)
	require.NotNil(t, st.CurrentCourse.Syllabus)
	assert.Len(t, st.CurrentCourse.Syllabus.Chapters, 1)

	// the snapshot is a copy
	st.Courses[0].Syllabus.Chapters[0].Title = "changed"
	assert.Equal(t, "Cells", s.Snapshot().Courses[0].Syllabus.Chapters[0].Title)

	s.EditSyllabus(ctx, crs.ID, func(syl *course.Syllabus) error {
		return syl.RenameChapter("missing", "x")
	})
	assert.Equal(t, course.ErrChapterNotFound.Error(), s.Snapshot().Error)
}

func TestStore_discardsStaleResults(t *testing.T) {
	t.Run("canceled", func(t *testing.T) {
		env, usr := setup(t)
		s, b := signedIn(t, env, usr, appstate.Options{})
		require.True(t, env.SignIn(t, usr).CreateTask(context.Background(), usr.ID,
			task.NewTask{Title: "New", DueDate: time.Now().Add(time.Hour)}).OK())

		ctx, cancel := context.WithCancel(context.Background())
		b.during = func(string) { cancel() }
		s.FetchTasks(ctx)

		assert.Empty(t, s.Snapshot().Tasks, "the canceled fetch is not applied")
		log := s.Log()
		assert.True(t, log[len(log)-1].Discarded)
	})

	t.Run("user changed", func(t *testing.T) {
		env, usr := setup(t)
		s, b := signedIn(t, env, usr, appstate.Options{})
		b.during = func(name string) {
			if name == "GetCourses" {
				b.during = nil
				s.SignOut(context.Background())
			}
		}
		s.FetchCourses(context.Background())

		st := s.Snapshot()
		assert.Nil(t, st.User)
		assert.Nil(t, st.Courses)
		assert.False(t, st.IsLoading)
	})
}

func TestStore_RunDocumentAction(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	ai := &fakeAI{}
	s, b := signedIn(t, env, usr, appstate.Options{DocumentAI: ai})
	s.CreateCourse(ctx, course.NewCourse{Name: "Biology"})
	crs := s.Snapshot().Courses[0]
	s.UploadDocument(ctx, crs.ID, document.File{Name: "scan.png", ContentType: "image/png", Body: strings.NewReader("png")})
	s.UploadDocument(ctx, crs.ID, document.File{Name: "cells.txt", Body: strings.NewReader("Cells divide.")})
	docs := s.Snapshot().Documents
	require.Len(t, docs, 2)
	pending, text := docs[1], docs[0]

	_, err := s.RunDocumentAction(ctx, pending.ID, document.ActionSummarize)
	assert.ErrorIs(t, err, document.ErrNotProcessed)
	assert.Zero(t, ai.calls, "no request for an unprocessed document")

	require.True(t, env.SignIn(t, usr).ProcessDocument(ctx, text.ID).OK())
	s.FetchDocuments(ctx, crs.ID)

	res, err := s.RunDocumentAction(ctx, text.ID, document.ActionQuiz)
	require.NoError(t, err)
	assert.Equal(t, "quiz done", res)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, b.Session(), ai.token)
	assert.Equal(t, "Cells divide.", ai.content)

	_, err = s.RunDocumentAction(ctx, text.ID, document.Action("translate"))
	assert.ErrorIs(t, err, document.ErrUnknownAction)
}

func TestStore_AddRecommendationToTodo(t *testing.T) {
	ctx := context.Background()
	env, usr := setup(t)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s, _ := signedIn(t, env, usr, appstate.Options{Now: func() time.Time { return now }})
	s.CreateCourse(ctx, course.NewCourse{Name: "Biology"})
	crs := s.Snapshot().Courses[0]
	s.EditSyllabus(ctx, crs.ID, func(syl *course.Syllabus) error {
		ch, err := syl.AddChapter("Cells")
		if err != nil {
			return err
		}
		_, err = syl.AddTopic(ch.ID, "Mitosis")
		return err
	})

	recs := s.Recommendations(5)
	require.Len(t, recs, 1)
	s.AddRecommendationToTodo(ctx, recs[0])

	tasks := s.Snapshot().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, task.TypeRevision, tasks[0].Type)
	assert.Equal(t, "Revise: Mitosis", tasks[0].Title)
	assert.Equal(t, revision.ToTask(recs[0], now).DueDate, tasks[0].DueDate.UTC())
}

func TestStore_Subscribe(t *testing.T) {
	env, usr := setup(t)
	s, _ := signedIn(t, env, usr, appstate.Options{})

	var loading []bool
	unsubscribe := s.Subscribe(func(st appstate.State) { loading = append(loading, st.IsLoading) })
	s.FetchCourses(context.Background())
	assert.Equal(t, []bool{true, false}, loading)

	unsubscribe()
	s.FetchCourses(context.Background())
	assert.Len(t, loading, 2)
}
