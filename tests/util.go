// Package testutil wires in-memory services for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/services/email"
	"github.com/trezcool/studybuddy/services/extract"
	"github.com/trezcool/studybuddy/storage/blob/disk"
	"github.com/trezcool/studybuddy/storage/database/dummy"
	"github.com/trezcool/studybuddy/storage/session/memory"
)

const Password = "Pass-w0rd!long"

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records what is logged.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil) // interface compliance check

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
	l.mu.Unlock()
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Entries returns the entries logged at level ("" for all).
func (l *Logger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Env is a complete in-memory backend.
type Env struct {
	Conf       *core.Config
	DB         *dummydb.DB
	Repos      backend.Repositories
	Deps       backend.Deps
	Services   *backend.Services
	Client     *backend.Client
	Mail       *emailsvc.ConsoleServiceMock
	Logger     *Logger
	Validate   *validator.Validate
	Translator ut.Translator
}

// Option changes the dependencies before the services are built (eg. to inject failures).
type Option func(*backend.Deps)

func Setup(t *testing.T, opts ...Option) *Env {
	t.Helper()

	conf := core.NewTestConfig()
	logger := NewLogger()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	blobs, err := diskblob.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("diskblob.NewStore(): %v", err)
	}
	validate, translator := backend.NewValidator()
	mail := emailsvc.NewConsoleServiceMock(conf, logger)

	deps := backend.Deps{
		Repos: backend.Repositories{
			Users:        dummydb.NewUserRepository(db),
			Courses:      dummydb.NewCourseRepository(db),
			Documents:    dummydb.NewDocumentRepository(db),
			Tasks:        dummydb.NewTaskRepository(db),
			Notes:        dummydb.NewNoteRepository(db),
			Flashcards:   dummydb.NewFlashcardRepository(db),
			Journal:      dummydb.NewJournalRepository(db),
			VoiceScripts: dummydb.NewVoiceScriptRepository(db),
		},
		Sessions:  memsession.NewStore(conf.Session.TTL),
		Blobs:     blobs,
		Extractor: extract.New(),
		Mail:      mail,
		Validate:  validate,
		Logger:    logger,
		Conf:      conf,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	svcs := backend.NewServices(deps)

	return &Env{
		Conf:       conf,
		DB:         db,
		Repos:      deps.Repos,
		Deps:       deps,
		Services:   svcs,
		Client:     backend.New(svcs, translator, logger),
		Mail:       mail,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
	}
}

// CreateUser signs a user up through the services (email "<name>@test.com").
func (env *Env) CreateUser(t *testing.T, name string) user.User {
	t.Helper()
	usr, err := env.Services.Users.SignUp(context.Background(), user.NewUser{
		Email:    fmt.Sprintf("%s@test.com", name),
		Password: Password,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return usr
}

// SignIn returns a client acting for usr.
func (env *Env) SignIn(t *testing.T, usr user.User) *backend.Client {
	t.Helper()
	sess, err := env.Services.Users.SignIn(context.Background(), user.Credentials{Email: usr.Email, Password: Password})
	if err != nil {
		t.Fatalf("SignIn(%s): %v", usr.Email, err)
	}
	return env.Client.WithToken(sess.Token)
}

// FailingBlobs wraps a blob store, failing the operations whose error is set.
type FailingBlobs struct {
	document.BlobStore
	PutErr, DeleteErr error
}

func (b *FailingBlobs) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	if b.PutErr != nil {
		return b.PutErr
	}
	return b.BlobStore.Put(ctx, path, r, contentType)
}

func (b *FailingBlobs) Delete(ctx context.Context, path string) error {
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	return b.BlobStore.Delete(ctx, path)
}
