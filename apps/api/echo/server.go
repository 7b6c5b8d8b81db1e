package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/quiz"
	"github.com/trezcool/studybuddy/services/ai"
)

type (
	// AIService generates study material and runs document actions.
	AIService interface {
		GenerateFlashcards(ctx context.Context, in ai.GenerationInput) ([]flashcard.Card, error)
		GenerateQuiz(ctx context.Context, content string) ([]quiz.Question, error)
		Ask(ctx context.Context, question string) string
		DocumentAction(ctx context.Context, token string, action document.Action, content string) (string, error)
	}

	// CalendarMailer emails a user their task calendar.
	CalendarMailer interface {
		SendCalendar(ctx context.Context, userID string) error
	}

	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Client         *backend.Client
		Sessions       Authenticator
		AI             AIService
		Calendars      CalendarMailer // optional
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var (
	_ Server    = (*server)(nil)
	_ AIService = (*ai.Client)(nil)
)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	auth := bearerAuth(s.deps.Sessions, s.deps.Client)

	registerAuthAPI(v1, auth, s.deps)
	registerCourseAPI(v1, auth, s.deps)
	registerDocumentAPI(v1, auth, s.deps)
	registerTaskAPI(v1, auth, s.deps)
	registerNoteAPI(v1, auth, s.deps)
	registerStudyAPI(v1, auth, s.deps)
	registerJournalAPI(v1, auth, s.deps)
	registerVoiceScriptAPI(v1, auth, s.deps)
	registerRevisionAPI(v1, auth, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error { return s.errors }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to StudyBuddy API!")
}
