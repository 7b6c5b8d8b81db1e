// Package appstate holds what the signed-in user currently sees, and the actions that load
// and change it through the backend façade.
//
// Every mutation reconciles the loaded collections locally from the rows the backend returns
// (create prepends, update replaces in place, delete filters); fetches replace a collection
// wholesale. Results arriving after their context is done, or after the user changed
// (sign-in, sign-out), are discarded.
package appstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/core/voicescript"
)

var (
	ErrNoDocumentAI = errors.New("document AI is not configured")
	ErrUnknownItem  = errors.New("not loaded, refresh and try again")
)

type (
	// Backend is the part of the backend façade the store drives.
	Backend interface {
		Session() string
		GetCurrentUser(ctx context.Context) core.Result[*user.User]
		SignIn(ctx context.Context, email, password string) core.Result[user.Session]
		SignUp(ctx context.Context, email, password, name string) core.Result[user.User]
		SignOut(ctx context.Context) core.Result[core.Void]

		GetCourses(ctx context.Context, userID string) core.Result[[]course.Course]
		CreateCourse(ctx context.Context, userID string, nc course.NewCourse) core.Result[course.Course]
		UpdateCourse(ctx context.Context, id string, uc course.UpdateCourse) core.Result[course.Course]
		UpdateSyllabus(ctx context.Context, id string, syllabus *course.Syllabus) core.Result[course.Course]
		DeleteCourse(ctx context.Context, id string) core.Result[core.Void]

		GetTasks(ctx context.Context, userID string, orderings ...core.DBOrdering) core.Result[[]task.Task]
		CreateTask(ctx context.Context, userID string, nt task.NewTask) core.Result[task.Task]
		UpdateTaskStatus(ctx context.Context, id string, status task.Status) core.Result[task.Task]
		DeleteTask(ctx context.Context, id string) core.Result[core.Void]

		GetNotes(ctx context.Context, userID string, courseID *string) core.Result[[]note.Note]
		CreateNote(ctx context.Context, userID string, nn note.NewNote) core.Result[note.Note]
		UpdateNote(ctx context.Context, id string, un note.UpdateNote) core.Result[note.Note]
		DeleteNote(ctx context.Context, id string) core.Result[core.Void]

		GetDocuments(ctx context.Context, courseID string) core.Result[[]document.Document]
		UploadDocument(ctx context.Context, courseID, userID string, file document.File, opts ...document.UploadOptions) core.Result[document.Document]
		DeleteDocument(ctx context.Context, id string) core.Result[core.Void]

		GetVoiceScripts(ctx context.Context, userID string) core.Result[[]voicescript.VoiceScript]
		CreateVoiceScript(ctx context.Context, userID string, nv voicescript.NewVoiceScript) core.Result[voicescript.VoiceScript]
		UpdateVoiceScript(ctx context.Context, id string, uv voicescript.UpdateVoiceScript) core.Result[voicescript.VoiceScript]
		DeleteVoiceScript(ctx context.Context, id string) core.Result[core.Void]
	}

	// DocumentAI runs AI actions on a document's extracted content.
	DocumentAI interface {
		DocumentAction(ctx context.Context, token string, action document.Action, content string) (string, error)
	}

	Options struct {
		DocumentAI DocumentAI
		Logger     core.Logger
		Now        func() time.Time
	}
)

var _ Backend = (*backend.Client)(nil) // interface compliance check

// State is the current view. Collections are nil until fetched.
type State struct {
	User          *user.User
	Courses       []course.Course
	CurrentCourse *course.Course
	Documents     []document.Document
	Tasks         []task.Task
	Notes         []note.Note
	VoiceScripts  []voicescript.VoiceScript
	IsLoading     bool
	Error         string
}

func (st State) clone() State {
	if st.User != nil {
		usr := *st.User
		st.User = &usr
	}
	st.Courses = cloneCourses(st.Courses)
	if st.CurrentCourse != nil {
		crs := cloneCourse(*st.CurrentCourse)
		st.CurrentCourse = &crs
	}
	st.Documents = cloneSlice(st.Documents)
	st.Tasks = cloneSlice(st.Tasks)
	st.Notes = cloneSlice(st.Notes)
	st.VoiceScripts = cloneSlice(st.VoiceScripts)
	return st
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// fetched copies a fetched collection; an empty result is an empty, non-nil collection.
func fetched[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}

func cloneCourse(crs course.Course) course.Course {
	crs.Syllabus = crs.Syllabus.Clone()
	return crs
}

func cloneCourses(courses []course.Course) []course.Course {
	if courses == nil {
		return nil
	}
	out := make([]course.Course, len(courses))
	for i, crs := range courses {
		out[i] = cloneCourse(crs)
	}
	return out
}

// ActionRecord is an entry of the action log.
type ActionRecord struct {
	Name      string
	Start     time.Time
	End       time.Time
	Err       string
	Discarded bool // result arrived after cancellation or a user change
}

type Store struct {
	backend Backend
	ai      DocumentAI
	logger  core.Logger
	now     func() time.Time

	mu        sync.Mutex
	state     State
	epoch     uint64 // bumped whenever the user changes
	inflight  int
	log       []ActionRecord
	listeners map[int]func(State)
	nextID    int
}

func New(b Backend, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		backend:   b,
		ai:        opts.DocumentAI,
		logger:    opts.Logger,
		now:       opts.Now,
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state; changing it does not change the store.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe calls fn with a snapshot after every state change, until the returned func is called.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Log returns the actions run so far, oldest first.
func (s *Store) Log() []ActionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.log)
}

// notify must be called without holding mu.
func (s *Store) notify(st State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

// currentUser returns the signed-in user's id, or false when signed out.
func (s *Store) currentUser() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return "", false
	}
	return s.state.User.ID, true
}

func (s *Store) fail(name string, err error) {
	now := s.now()
	s.mu.Lock()
	s.state.Error = core.ErrorMessage(err)
	s.log = append(s.log, ActionRecord{Name: name, Start: now, End: now, Err: s.state.Error})
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)
}

// run calls the backend outside the lock, then applies the result under the lock when the
// result is still wanted: ctx not done and the user unchanged. apply may change the epoch.
func run[T any](s *Store, ctx context.Context, name string, call func(context.Context) core.Result[T], apply func(s *Store, data T)) bool {
	rec := ActionRecord{Name: name, Start: s.now()}

	s.mu.Lock()
	epoch := s.epoch
	s.inflight++
	s.state.IsLoading = true
	s.state.Error = ""
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)

	res := call(ctx)

	s.mu.Lock()
	s.inflight--
	applied := false
	switch {
	case ctx.Err() != nil || epoch != s.epoch:
		rec.Discarded = true
	case !res.OK():
		rec.Err = res.Message()
		s.state.Error = rec.Err
	default:
		apply(s, res.Data)
		applied = true
	}
	s.state.IsLoading = s.inflight > 0
	rec.End = s.now()
	s.log = append(s.log, rec)
	st = s.state.clone()
	s.mu.Unlock()
	s.notify(st)

	if rec.Discarded && s.logger != nil {
		s.logger.Debug("appstate: discarded result of " + name)
	}
	return applied
}

// reset empties the state for a user change.
func (s *Store) reset(usr *user.User) {
	s.epoch++
	s.state = State{User: usr}
}

func prepend[T any](items []T, item T) []T {
	return append([]T{item}, items...)
}

func replace[T any](items []T, item T, same func(T) bool) []T {
	out := cloneSlice(items)
	for i := range out {
		if same(out[i]) {
			out[i] = item
		}
	}
	return out
}

func remove[T any](items []T, match func(T) bool) []T {
	if items == nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
