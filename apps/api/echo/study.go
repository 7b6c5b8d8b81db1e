package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/flashcard"
	"github.com/trezcool/studybuddy/core/quiz"
	"github.com/trezcool/studybuddy/services/ai"
)

// studyApi serves flashcards, quizzes and the study assistant.
type studyApi struct {
	ai AIService
}

func registerStudyAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := studyApi{ai: deps.AI}

	fg := g.Group("/flashcards", auth)
	fg.GET("", api.queryFlashcards)
	fg.POST("", api.saveFlashcards)
	fg.POST("/generate", api.generateFlashcards)
	fg.DELETE("/:id", api.destroyFlashcard)

	qg := g.Group("/quiz", auth)
	qg.POST("/generate", api.generateQuiz)
	qg.POST("/grade", api.gradeQuiz)

	g.POST("/ask", api.ask, auth)
}

func (api *studyApi) queryFlashcards(ctx echo.Context) error {
	res := contextClient(ctx).GetFlashcards(ctx.Request().Context(), contextUserID(ctx), optionalParam(ctx, "document_id"))
	return respond(ctx, http.StatusOK, res)
}

func (api *studyApi) saveFlashcards(ctx echo.Context) error {
	var data flashcard.SaveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveRequest")
	}
	res := contextClient(ctx).SaveFlashcards(ctx.Request().Context(), contextUserID(ctx), data.DocumentID, data.Cards)
	return respond(ctx, http.StatusCreated, res)
}

func (api *studyApi) destroyFlashcard(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteFlashcard(ctx.Request().Context(), ctx.Param("id")))
}

type flashcardsResponse struct {
	Flashcards []flashcard.Card `json:"flashcards"`
}

func (api *studyApi) generateFlashcards(ctx echo.Context) error {
	var data ai.GenerationInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerationInput")
	}
	cards, err := api.ai.GenerateFlashcards(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating flashcards")
	}
	return ctx.JSON(http.StatusOK, flashcardsResponse{Flashcards: cards})
}

type (
	quizRequest struct {
		Content string `json:"content"`
	}

	quizResponse struct {
		Quiz []quiz.Question `json:"quiz"`
	}

	gradeRequest struct {
		Questions []quiz.Question `json:"questions"`
		Answers   map[int]string  `json:"answers"`
	}

	gradeResponse struct {
		quiz.Score
		Percent int `json:"percent"`
	}
)

func (api *studyApi) generateQuiz(ctx echo.Context) error {
	var data quizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to quizRequest")
	}
	questions, err := api.ai.GenerateQuiz(ctx.Request().Context(), data.Content)
	if err != nil {
		return errors.Wrap(err, "generating quiz")
	}
	return ctx.JSON(http.StatusOK, quizResponse{Quiz: questions})
}

func (api *studyApi) gradeQuiz(ctx echo.Context) error {
	var data gradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to gradeRequest")
	}
	if err := quiz.Validate(data.Questions); err != nil {
		return core.NewValidationError(err)
	}
	score := quiz.Grade(data.Questions, data.Answers)
	return ctx.JSON(http.StatusOK, gradeResponse{Score: score, Percent: score.Percent()})
}

type (
	askRequest struct {
		Question string `json:"question"`
	}

	askResponse struct {
		Answer string `json:"answer"`
	}
)

// ask always answers: the assistant falls back to a canned answer when the AI backend fails.
func (api *studyApi) ask(ctx echo.Context) error {
	var data askRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to askRequest")
	}
	return ctx.JSON(http.StatusOK, askResponse{Answer: api.ai.Ask(ctx.Request().Context(), data.Question)})
}
