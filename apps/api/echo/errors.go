package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/journal"
	"github.com/trezcool/studybuddy/core/note"
	"github.com/trezcool/studybuddy/core/quiz"
	"github.com/trezcool/studybuddy/core/task"
	"github.com/trezcool/studybuddy/core/user"
	"github.com/trezcool/studybuddy/core/voicescript"
	"github.com/trezcool/studybuddy/services/ai"
	"github.com/trezcool/studybuddy/services/extract"
)

var (
	errMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed token")
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
)

// statusOf maps the expected failures of the backend and the AI services to a status code.
var statusOf = []struct {
	err  error
	code int
}{
	{course.ErrNotFound, http.StatusNotFound},
	{document.ErrNotFound, http.StatusNotFound},
	{document.ErrBlobNotFound, http.StatusNotFound},
	{task.ErrNotFound, http.StatusNotFound},
	{note.ErrNotFound, http.StatusNotFound},
	{flashcard.ErrNotFound, http.StatusNotFound},
	{journal.ErrNotFound, http.StatusNotFound},
	{voicescript.ErrNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},
	{user.ErrProfileNotFound, http.StatusNotFound},
	{course.ErrChapterNotFound, http.StatusNotFound},
	{course.ErrTopicNotFound, http.StatusNotFound},

	{backend.ErrUnauthenticated, http.StatusUnauthorized},
	{user.ErrInvalidToken, http.StatusUnauthorized},
	{ai.ErrMissingToken, http.StatusUnauthorized},
	{backend.ErrForbidden, http.StatusForbidden},
	{journal.ErrWrongPasscode, http.StatusForbidden},

	{user.ErrInvalidCredentials, http.StatusBadRequest},
	{document.ErrUnknownAction, http.StatusBadRequest},
	{document.ErrEmptyFile, http.StatusBadRequest},
	{ai.ErrInvalidInput, http.StatusBadRequest},
	{quiz.ErrEmptyQuiz, http.StatusBadRequest},
	{course.ErrBlankTitle, http.StatusBadRequest},
	{course.ErrInvalidSyllabus, http.StatusBadRequest},

	{user.ErrEmailExists, http.StatusConflict},
	{document.ErrNotProcessed, http.StatusConflict},
	{extract.ErrTooLarge, http.StatusRequestEntityTooLarge},

	{ai.ErrNonJSONResponse, http.StatusBadGateway},
	{ai.ErrNoFlashcards, http.StatusBadGateway},
	{ai.ErrNoQuiz, http.StatusBadGateway},
	{ai.ErrEmptyResult, http.StatusBadGateway},
}

func classify(err error) (int, string, bool) {
	for _, s := range statusOf {
		if errors.Is(err, s.err) {
			return s.code, s.err.Error(), true
		}
	}
	var srvErr *ai.ServerError
	if errors.As(err, &srvErr) {
		return http.StatusBadGateway, srvErr.Message, true
	}
	return 0, "", false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var vErr *core.ValidationError
		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, fErr := range origErr {
				fldErrs[fErr.Field()] = fErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		default:
			if errors.As(err, &vErr) {
				if len(vErr.Fields) > 0 {
					fldErrs := make(map[string]string, len(vErr.Fields))
					for _, fErr := range vErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = vErr.Error()
				}
				code = http.StatusBadRequest
				break
			}
			if c, msg, ok := classify(err); ok {
				code = c
				message = msg
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg), user.User{ID: contextUserID(ctx)})

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
