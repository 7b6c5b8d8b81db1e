package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/appstate"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/quiz"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/services/ai"
	"github.com/trezcool/studybuddy/services/extract"
	logsvc "github.com/trezcool/studybuddy/services/logger"
	diskblob "github.com/trezcool/studybuddy/storage/blob/disk"
	gridfsblob "github.com/trezcool/studybuddy/storage/blob/gridfs"
	"github.com/trezcool/studybuddy/storage/database"
	sqlxrepos "github.com/trezcool/studybuddy/storage/database/sqlx"
	memsession "github.com/trezcool/studybuddy/storage/session/memory"
	redissession "github.com/trezcool/studybuddy/storage/session/redis"
)

var errNotSignedIn = errors.New("not signed in: pass --token, or --email and --password")

// AI is what the terminal needs from the AI services.
type AI interface {
	appstate.DocumentAI
	GenerateFlashcards(ctx context.Context, in ai.GenerationInput) ([]flashcard.Card, error)
	GenerateQuiz(ctx context.Context, content string) ([]quiz.Question, error)
	Ask(ctx context.Context, question string) string
}

var _ AI = (*ai.Client)(nil)

// app is one CLI run: a backend client, the store driving it, and the AI services.
type app struct {
	conf   *core.Config
	logger core.Logger
	client *backend.Client
	store  *appstate.Store
	ai     AI
	now    func() time.Time
	close  func()
}

type appOpener func(ctx context.Context) (*app, error)

func newApp(conf *core.Config, logger core.Logger, client *backend.Client, aiSvc AI, now func() time.Time, closeFn func()) *app {
	if closeFn == nil {
		closeFn = func() {}
	}
	return &app{
		conf:   conf,
		logger: logger,
		client: client,
		store:  appstate.New(client, appstate.Options{DocumentAI: aiSvc, Logger: logger, Now: now}),
		ai:     aiSvc,
		now:    now,
		close:  closeFn,
	}
}

// openApp wires the backend services on the configured storages.
func openApp(ctx context.Context) (*app, error) {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "STUDYCLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		logger.Close()
	}

	db, err := database.Open(conf)
	if err != nil {
		closeAll()
		return nil, errors.Wrap(err, "opening database")
	}
	closers = append(closers, func() { _ = db.Close() })

	var sessions user.SessionStore
	switch conf.Session.Driver {
	case "redis":
		rdb, err := redissession.Open(ctx, conf)
		if err != nil {
			closeAll()
			return nil, errors.Wrap(err, "opening sessions")
		}
		closers = append(closers, func() { _ = rdb.Close() })
		sessions = redissession.NewStore(rdb)
	default:
		sessions = memsession.NewStore(conf.Session.TTL)
	}

	var blobs document.BlobStore
	switch conf.Blob.Driver {
	case "gridfs":
		mc, mdb, err := gridfsblob.Open(ctx, conf)
		if err != nil {
			closeAll()
			return nil, errors.Wrap(err, "opening blob storage")
		}
		closers = append(closers, func() { _ = mc.Disconnect(context.Background()) })
		blobs = gridfsblob.NewStore(mdb, conf.Blob.MongoBucket)
	default:
		if blobs, err = diskblob.NewStore(conf.Blob.DiskRoot); err != nil {
			closeAll()
			return nil, errors.Wrap(err, "opening blob storage")
		}
	}

	validate, translator := backend.NewValidator()
	svcs := backend.NewServices(backend.Deps{
		Repos: backend.Repositories{
			Users:        sqlxrepos.NewUserRepository(db),
			Courses:      sqlxrepos.NewCourseRepository(db),
			Documents:    sqlxrepos.NewDocumentRepository(db),
			Tasks:        sqlxrepos.NewTaskRepository(db),
			Notes:        sqlxrepos.NewNoteRepository(db),
			Flashcards:   sqlxrepos.NewFlashcardRepository(db),
			Journal:      sqlxrepos.NewJournalRepository(db),
			VoiceScripts: sqlxrepos.NewVoiceScriptRepository(db),
		},
		Sessions:  sessions,
		Blobs:     blobs,
		Extractor: extract.New(),
		Validate:  validate,
		Logger:    logger,
		Conf:      conf,
	})

	client := backend.New(svcs, translator, logger)
	return newApp(conf, logger, client, ai.NewClient(conf.AI, logger), time.Now, closeAll), nil
}

// check turns the error left in the store by the last action into a Go error.
func (a *app) check() error {
	if msg := a.store.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return nil
}

// authenticate resumes the session behind token, or signs in with email and password.
func (a *app) authenticate(ctx context.Context, token, email, password string) error {
	switch {
	case token != "":
		a.client = a.client.WithToken(token)
		a.store = appstate.New(a.client, appstate.Options{DocumentAI: a.ai, Logger: a.logger, Now: a.now})
		a.store.InitAuth(ctx)
	case email != "" && password != "":
		a.store.SignIn(ctx, email, password)
	default:
		return errNotSignedIn
	}
	if err := a.check(); err != nil {
		return err
	}
	if a.store.Snapshot().User == nil {
		return errNotSignedIn
	}
	return nil
}

func (a *app) userID() string {
	if usr := a.store.Snapshot().User; usr != nil {
		return usr.ID
	}
	return ""
}

// documentContent returns the extracted content of one of the user's documents.
func (a *app) documentContent(ctx context.Context, id string) (string, error) {
	doc, err := a.client.GetDocument(ctx, id).Unwrap()
	if err != nil {
		return "", err
	}
	if err = doc.CheckAIReady(); err != nil {
		return "", err
	}
	return *doc.Content, nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
