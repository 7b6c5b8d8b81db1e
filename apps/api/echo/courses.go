package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core/course"
)

type courseApi struct{}

func registerCourseAPI(g *echo.Group, auth echo.MiddlewareFunc, _ ServerDeps) {
	api := courseApi{}

	cg := g.Group("/courses", auth)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PATCH("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
	cg.PUT("/:id/syllabus", api.updateSyllabus)
}

func (api *courseApi) query(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetCourses(ctx.Request().Context(), contextUserID(ctx)))
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	res := contextClient(ctx).CreateCourse(ctx.Request().Context(), contextUserID(ctx), data)
	return respond(ctx, http.StatusCreated, res)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetCourse(ctx.Request().Context(), ctx.Param("id")))
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	return respond(ctx, http.StatusOK, contextClient(ctx).UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data))
}

// updateSyllabus replaces the whole syllabus: the last write wins.
func (api *courseApi) updateSyllabus(ctx echo.Context) error {
	data := new(course.Syllabus)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding to Syllabus")
	}
	return respond(ctx, http.StatusOK, contextClient(ctx).UpdateSyllabus(ctx.Request().Context(), ctx.Param("id"), data))
}

func (api *courseApi) destroy(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteCourse(ctx.Request().Context(), ctx.Param("id")))
}
