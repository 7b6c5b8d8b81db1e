package appstate

import (
	"context"
	"strings"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/revision"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/core/voicescript"
)

// Auth

// InitAuth loads the session user, then their courses and tasks. Calling it again reloads
// the same data without duplicating it.
func (s *Store) InitAuth(ctx context.Context) {
	var usr *user.User
	ok := run(s, ctx, "initAuth", s.backend.GetCurrentUser, func(s *Store, u *user.User) {
		usr = u
		if u == nil {
			if s.state.User != nil {
				s.reset(nil)
			}
			return
		}
		if s.state.User == nil || s.state.User.ID != u.ID {
			s.reset(u)
			return
		}
		s.state.User = u
	})
	if ok && usr != nil {
		s.FetchCourses(ctx)
		s.FetchTasks(ctx)
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) {
	ok := run(s, ctx, "signIn", func(ctx context.Context) core.Result[user.Session] {
		return s.backend.SignIn(ctx, email, password)
	}, func(s *Store, sess user.Session) {
		usr := sess.User
		s.reset(&usr)
	})
	if ok {
		s.FetchCourses(ctx)
		s.FetchTasks(ctx)
	}
}

// SignUp registers the user, then signs them in.
func (s *Store) SignUp(ctx context.Context, email, password, name string) {
	ok := run(s, ctx, "signUp", func(ctx context.Context) core.Result[user.User] {
		return s.backend.SignUp(ctx, email, password, name)
	}, func(*Store, user.User) {})
	if ok {
		s.SignIn(ctx, email, password)
	}
}

// SignOut empties the whole state once the backend session is closed.
func (s *Store) SignOut(ctx context.Context) {
	run(s, ctx, "signOut", s.backend.SignOut, func(s *Store, _ core.Void) {
		s.reset(nil)
	})
}

// Courses

func (s *Store) FetchCourses(ctx context.Context) {
	uid, ok := s.currentUser()
	if !ok {
		return
	}
	run(s, ctx, "fetchCourses", func(ctx context.Context) core.Result[[]course.Course] {
		return s.backend.GetCourses(ctx, uid)
	}, func(s *Store, courses []course.Course) {
		s.state.Courses = fetched(cloneCourses(courses))
		if cur := s.state.CurrentCourse; cur != nil {
			s.state.CurrentCourse = nil
			for _, crs := range courses {
				if crs.ID == cur.ID {
					crs = cloneCourse(crs)
					s.state.CurrentCourse = &crs
				}
			}
		}
	})
}

// SelectCourse makes a loaded course current and loads its documents and notes.
func (s *Store) SelectCourse(ctx context.Context, id string) {
	s.mu.Lock()
	var found *course.Course
	for _, crs := range s.state.Courses {
		if crs.ID == id {
			crs = cloneCourse(crs)
			found = &crs
		}
	}
	if found != nil {
		s.state.CurrentCourse = found
	}
	st := s.state.clone()
	s.mu.Unlock()

	if found == nil {
		s.fail("selectCourse", course.ErrNotFound)
		return
	}
	s.notify(st)
	s.FetchDocuments(ctx, id)
	s.FetchNotes(ctx, &id)
}

func (s *Store) CreateCourse(ctx context.Context, nc course.NewCourse) {
	uid, ok := s.currentUser()
	if !ok {
		s.fail("createCourse", backend.ErrUnauthenticated)
		return
	}
	run(s, ctx, "createCourse", func(ctx context.Context) core.Result[course.Course] {
		return s.backend.CreateCourse(ctx, uid, nc)
	}, func(s *Store, crs course.Course) {
		s.state.Courses = prepend(s.state.Courses, cloneCourse(crs))
	})
}

func (s *Store) UpdateCourse(ctx context.Context, id string, uc course.UpdateCourse) {
	run(s, ctx, "updateCourse", func(ctx context.Context) core.Result[course.Course] {
		return s.backend.UpdateCourse(ctx, id, uc)
	}, (*Store).putCourse)
}

// EditSyllabus applies edit to a copy of the loaded course's syllabus and saves the whole
// syllabus. The last saved syllabus wins over concurrent edits.
func (s *Store) EditSyllabus(ctx context.Context, courseID string, edit func(*course.Syllabus) error) {
	s.mu.Lock()
	var syllabus *course.Syllabus
	found := false
	for _, crs := range s.state.Courses {
		if crs.ID == courseID {
			found = true
			syllabus = crs.Syllabus.Clone()
		}
	}
	s.mu.Unlock()

	if !found {
		s.fail("editSyllabus", ErrUnknownItem)
		return
	}
	if syllabus == nil {
		syllabus = &course.Syllabus{Chapters: []course.Chapter{}}
	}
	if err := edit(syllabus); err != nil {
		s.fail("editSyllabus", err)
		return
	}
	run(s, ctx, "editSyllabus", func(ctx context.Context) core.Result[course.Course] {
		return s.backend.UpdateSyllabus(ctx, courseID, syllabus)
	}, (*Store).putCourse)
}

func (s *Store) putCourse(crs course.Course) {
	s.state.Courses = replace(s.state.Courses, cloneCourse(crs), func(c course.Course) bool { return c.ID == crs.ID })
	if s.state.CurrentCourse != nil && s.state.CurrentCourse.ID == crs.ID {
		cur := cloneCourse(crs)
		s.state.CurrentCourse = &cur
	}
}

// DeleteCourse also drops the loaded documents, tasks and notes of the course, as the
// backend cascades the deletion.
func (s *Store) DeleteCourse(ctx context.Context, id string) {
	run(s, ctx, "deleteCourse", func(ctx context.Context) core.Result[core.Void] {
		return s.backend.DeleteCourse(ctx, id)
	}, func(s *Store, _ core.Void) {
		s.state.Courses = remove(s.state.Courses, func(c course.Course) bool { return c.ID == id })
		if s.state.CurrentCourse != nil && s.state.CurrentCourse.ID == id {
			s.state.CurrentCourse = nil
		}
		inCourse := func(courseID *string) bool { return courseID != nil && *courseID == id }
		s.state.Documents = remove(s.state.Documents, func(d document.Document) bool { return d.CourseID == id })
		s.state.Tasks = remove(s.state.Tasks, func(t task.Task) bool { return inCourse(t.CourseID) })
		s.state.Notes = remove(s.state.Notes, func(n note.Note) bool { return inCourse(n.CourseID) })
	})
}

// Tasks

func (s *Store) FetchTasks(ctx context.Context) {
	uid, ok := s.currentUser()
	if !ok {
		return
	}
	run(s, ctx, "fetchTasks", func(ctx context.Context) core.Result[[]task.Task] {
		return s.backend.GetTasks(ctx, uid)
	}, func(s *Store, tasks []task.Task) {
		s.state.Tasks = fetched(tasks)
	})
}

func (s *Store) CreateTask(ctx context.Context, nt task.NewTask) {
	uid, ok := s.currentUser()
	if !ok {
		s.fail("createTask", backend.ErrUnauthenticated)
		return
	}
	run(s, ctx, "createTask", func(ctx context.Context) core.Result[task.Task] {
		return s.backend.CreateTask(ctx, uid, nt)
	}, func(s *Store, tsk task.Task) {
		s.state.Tasks = prepend(s.state.Tasks, tsk)
	})
}

// ToggleTaskStatus flips a loaded task between pending and completed.
func (s *Store) ToggleTaskStatus(ctx context.Context, id string) {
	s.mu.Lock()
	var status task.Status
	for _, tsk := range s.state.Tasks {
		if tsk.ID == id {
			status = tsk.Status.Toggle()
		}
	}
	s.mu.Unlock()

	if status == "" {
		s.fail("toggleTaskStatus", ErrUnknownItem)
		return
	}
	run(s, ctx, "toggleTaskStatus", func(ctx context.Context) core.Result[task.Task] {
		return s.backend.UpdateTaskStatus(ctx, id, status)
	}, func(s *Store, tsk task.Task) {
		s.state.Tasks = replace(s.state.Tasks, tsk, func(t task.Task) bool { return t.ID == tsk.ID })
	})
}

func (s *Store) DeleteTask(ctx context.Context, id string) {
	run(s, ctx, "deleteTask", func(ctx context.Context) core.Result[core.Void] {
		return s.backend.DeleteTask(ctx, id)
	}, func(s *Store, _ core.Void) {
		s.state.Tasks = remove(s.state.Tasks, func(t task.Task) bool { return t.ID == id })
	})
}

// AddRecommendationToTodo turns a revision recommendation into a task.
func (s *Store) AddRecommendationToTodo(ctx context.Context, rec revision.Recommendation) {
	s.CreateTask(ctx, revision.ToTask(rec, s.now()))
}

// Recommendations proposes topics to revise from the loaded courses and tasks.
func (s *Store) Recommendations(limit int) []revision.Recommendation {
	st := s.Snapshot()
	return revision.Recommend(st.Courses, st.Tasks, s.now(), limit)
}

// Notes

// FetchNotes loads the user's notes, only those of courseID when given.
func (s *Store) FetchNotes(ctx context.Context, courseID *string) {
	uid, ok := s.currentUser()
	if !ok {
		return
	}
	run(s, ctx, "fetchNotes", func(ctx context.Context) core.Result[[]note.Note] {
		return s.backend.GetNotes(ctx, uid, courseID)
	}, func(s *Store, notes []note.Note) {
		s.state.Notes = fetched(notes)
	})
}

func (s *Store) CreateNote(ctx context.Context, nn note.NewNote) {
	uid, ok := s.currentUser()
	if !ok {
		s.fail("createNote", backend.ErrUnauthenticated)
		return
	}
	run(s, ctx, "createNote", func(ctx context.Context) core.Result[note.Note] {
		return s.backend.CreateNote(ctx, uid, nn)
	}, func(s *Store, n note.Note) {
		s.state.Notes = prepend(s.state.Notes, n)
	})
}

func (s *Store) UpdateNote(ctx context.Context, id string, un note.UpdateNote) {
	run(s, ctx, "updateNote", func(ctx context.Context) core.Result[note.Note] {
		return s.backend.UpdateNote(ctx, id, un)
	}, func(s *Store, n note.Note) {
		s.state.Notes = replace(s.state.Notes, n, func(o note.Note) bool { return o.ID == n.ID })
	})
}

func (s *Store) DeleteNote(ctx context.Context, id string) {
	run(s, ctx, "deleteNote", func(ctx context.Context) core.Result[core.Void] {
		return s.backend.DeleteNote(ctx, id)
	}, func(s *Store, _ core.Void) {
		s.state.Notes = remove(s.state.Notes, func(n note.Note) bool { return n.ID == id })
	})
}

// Documents

func (s *Store) FetchDocuments(ctx context.Context, courseID string) {
	if _, ok := s.currentUser(); !ok {
		return
	}
	run(s, ctx, "fetchDocuments", func(ctx context.Context) core.Result[[]document.Document] {
		return s.backend.GetDocuments(ctx, courseID)
	}, func(s *Store, docs []document.Document) {
		s.state.Documents = fetched(docs)
	})
}

func (s *Store) UploadDocument(ctx context.Context, courseID string, file document.File, opts ...document.UploadOptions) {
	uid, ok := s.currentUser()
	if !ok {
		s.fail("uploadDocument", backend.ErrUnauthenticated)
		return
	}
	run(s, ctx, "uploadDocument", func(ctx context.Context) core.Result[document.Document] {
		return s.backend.UploadDocument(ctx, courseID, uid, file, opts...)
	}, func(s *Store, doc document.Document) {
		s.state.Documents = prepend(s.state.Documents, doc)
	})
}

func (s *Store) DeleteDocument(ctx context.Context, id string) {
	run(s, ctx, "deleteDocument", func(ctx context.Context) core.Result[core.Void] {
		return s.backend.DeleteDocument(ctx, id)
	}, func(s *Store, _ core.Void) {
		s.state.Documents = remove(s.state.Documents, func(d document.Document) bool { return d.ID == id })
	})
}

// RunDocumentAction runs an AI action on a loaded document. A document without extracted
// content fails with document.ErrNotProcessed before any request is sent.
// The result is returned to the caller, it is not part of the state.
func (s *Store) RunDocumentAction(ctx context.Context, documentID string, action document.Action) (string, error) {
	s.mu.Lock()
	var doc *document.Document
	for _, d := range s.state.Documents {
		if d.ID == documentID {
			found := d
			doc = &found
		}
	}
	s.mu.Unlock()

	if doc == nil {
		return "", ErrUnknownItem
	}
	if _, err := document.ParseAction(string(action)); err != nil {
		return "", err
	}
	if err := doc.CheckAIReady(); err != nil {
		return "", err
	}
	if s.ai == nil {
		return "", ErrNoDocumentAI
	}

	start := s.now()
	result, err := s.ai.DocumentAction(ctx, s.backend.Session(), action, *doc.Content)
	rec := ActionRecord{Name: "documentAction:" + string(action), Start: start, End: s.now()}
	if err != nil {
		rec.Err = core.ErrorMessage(err)
	}
	s.mu.Lock()
	s.log = append(s.log, rec)
	s.mu.Unlock()
	return strings.TrimSpace(result), err
}

// Voice scripts

func (s *Store) FetchVoiceScripts(ctx context.Context) {
	uid, ok := s.currentUser()
	if !ok {
		return
	}
	run(s, ctx, "fetchVoiceScripts", func(ctx context.Context) core.Result[[]voicescript.VoiceScript] {
		return s.backend.GetVoiceScripts(ctx, uid)
	}, func(s *Store, scripts []voicescript.VoiceScript) {
		s.state.VoiceScripts = fetched(scripts)
	})
}

func (s *Store) CreateVoiceScript(ctx context.Context, title, content string) {
	uid, ok := s.currentUser()
	if !ok {
		s.fail("createVoiceScript", backend.ErrUnauthenticated)
		return
	}
	run(s, ctx, "createVoiceScript", func(ctx context.Context) core.Result[voicescript.VoiceScript] {
		return s.backend.CreateVoiceScript(ctx, uid, voicescript.NewVoiceScript{Title: title, Content: content})
	}, func(s *Store, vs voicescript.VoiceScript) {
		s.state.VoiceScripts = prepend(s.state.VoiceScripts, vs)
	})
}

func (s *Store) UpdateVoiceScript(ctx context.Context, id string, patch voicescript.UpdateVoiceScript) {
	run(s, ctx, "updateVoiceScript", func(ctx context.Context) core.Result[voicescript.VoiceScript] {
		return s.backend.UpdateVoiceScript(ctx, id, patch)
	}, func(s *Store, vs voicescript.VoiceScript) {
		s.state.VoiceScripts = replace(s.state.VoiceScripts, vs, func(o voicescript.VoiceScript) bool { return o.ID == vs.ID })
	})
}

func (s *Store) DeleteVoiceScript(ctx context.Context, id string) {
	run(s, ctx, "deleteVoiceScript", func(ctx context.Context) core.Result[core.Void] {
		return s.backend.DeleteVoiceScript(ctx, id)
	}, func(s *Store, _ core.Void) {
		s.state.VoiceScripts = remove(s.state.VoiceScripts, func(v voicescript.VoiceScript) bool { return v.ID == id })
	})
}
