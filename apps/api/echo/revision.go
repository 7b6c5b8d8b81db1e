package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core/revision"
)

const defaultRecommendations = 5

type revisionApi struct{}

func registerRevisionAPI(g *echo.Group, auth echo.MiddlewareFunc, _ ServerDeps) {
	api := revisionApi{}

	rg := g.Group("/revision/recommendations", auth)
	rg.GET("", api.recommend)
	rg.POST("/todo", api.addToTodo)
}

// recommend proposes incomplete syllabus topics, most urgent course deadlines first ("?limit=").
func (api *revisionApi) recommend(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	client := contextClient(ctx)
	courses := client.GetCourses(reqCtx, contextUserID(ctx))
	if courses.Err != nil {
		return courses.Err
	}
	tasks := client.GetTasks(reqCtx, contextUserID(ctx))
	if tasks.Err != nil {
		return tasks.Err
	}
	recs := revision.Recommend(courses.Data, tasks.Data, NowFunc().UTC(), intParam(ctx, "limit", defaultRecommendations))
	return ctx.JSON(http.StatusOK, recs)
}

// addToTodo turns a recommendation into a revision task.
func (api *revisionApi) addToTodo(ctx echo.Context) error {
	var data revision.Recommendation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Recommendation")
	}
	nt := revision.ToTask(data, NowFunc().UTC())
	return respond(ctx, http.StatusCreated, contextClient(ctx).CreateTask(ctx.Request().Context(), contextUserID(ctx), nt))
}
