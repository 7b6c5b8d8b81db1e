package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // /debug/pprof on the debug server
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/studybuddy/apps/api/echo"
	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/services/ai"
	emailsvc "github.com/trezcool/studybuddy/services/email"
	"github.com/trezcool/studybuddy/services/extract"
	logsvc "github.com/trezcool/studybuddy/services/logger"
	"github.com/trezcool/studybuddy/services/reminder"
	diskblob "github.com/trezcool/studybuddy/storage/blob/disk"
	gridfsblob "github.com/trezcool/studybuddy/storage/blob/gridfs"
	"github.com/trezcool/studybuddy/storage/database"
	sqlxrepos "github.com/trezcool/studybuddy/storage/database/sqlx"
	memsession "github.com/trezcool/studybuddy/storage/session/memory"
	redissession "github.com/trezcool/studybuddy/storage/session/redis"
)

var _ echoapi.CalendarMailer = (*reminder.Service)(nil)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	ctx := context.Background()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := setUpDB(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up storages
	sessions, closeSessions, err := setUpSessions(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up sessions: %v", err), err)
	}
	defer closeSessions()

	blobs, closeBlobs, err := setUpBlobs(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up blob storage: %v", err), err)
	}
	defer closeBlobs()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
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
		Mail:      mailSvc,
		Validate:  validate,
		Logger:    logger,
		Conf:      conf,
	})
	client := backend.New(svcs, translator, logger)
	aiClient := ai.NewClient(conf.AI, logger)
	reminders := reminder.NewService(svcs.Tasks, svcs.Users, mailSvc, logger, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(logger, false)

	if conf.Reminder.Enabled {
		if err = reminders.Start(); err != nil {
			logger.Fatal(fmt.Sprintf("starting reminders: %v", err), err)
		}
		defer func() { <-reminders.Stop().Done() }()
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Client:     client,
			Sessions:   svcs.Users,
			AI:         aiClient,
			Calendars:  reminders,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func setUpSessions(ctx context.Context, conf *core.Config) (user.SessionStore, func(), error) {
	switch conf.Session.Driver {
	case "redis":
		rdb, err := redissession.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		return redissession.NewStore(rdb), func() { _ = rdb.Close() }, nil
	case "memory", "":
		return memsession.NewStore(conf.Session.TTL), func() {}, nil
	}
	return nil, nil, errors.Errorf("unknown session driver %q", conf.Session.Driver)
}

func setUpBlobs(ctx context.Context, conf *core.Config) (document.BlobStore, func(), error) {
	switch conf.Blob.Driver {
	case "gridfs":
		mc, mdb, err := gridfsblob.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		return gridfsblob.NewStore(mdb, conf.Blob.MongoBucket), func() { _ = mc.Disconnect(context.Background()) }, nil
	case "disk", "":
		store, err := diskblob.NewStore(conf.Blob.DiskRoot)
		return store, func() {}, err
	}
	return nil, nil, errors.Errorf("unknown blob driver %q", conf.Blob.Driver)
}
