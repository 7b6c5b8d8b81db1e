package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/calendar"
	"github.com/trezcool/studybuddy/core/task"
)

var NowFunc = time.Now // mockable

type taskApi struct {
	conf      *core.Config
	calendars CalendarMailer
}

func registerTaskAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := taskApi{conf: deps.Conf, calendars: deps.Calendars}

	tg := g.Group("/tasks", auth)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/calendar.ics", api.exportCalendar)
	tg.POST("/calendar/email", api.emailCalendar)
	tg.GET("/webcal", api.webcal)
	tg.GET("/:id", api.retrieve)
	tg.PATCH("/:id", api.update)
	tg.PUT("/:id/status", api.updateStatus)
	tg.DELETE("/:id", api.destroy)
}

func (api *taskApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)
	res := contextClient(ctx).GetTasks(ctx.Request().Context(), contextUserID(ctx), ordering.Orderings...)
	return respond(ctx, http.StatusOK, res)
}

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	return respond(ctx, http.StatusCreated, contextClient(ctx).CreateTask(ctx.Request().Context(), contextUserID(ctx), data))
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetTask(ctx.Request().Context(), ctx.Param("id")))
}

func (api *taskApi) update(ctx echo.Context) error {
	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	return respond(ctx, http.StatusOK, contextClient(ctx).UpdateTask(ctx.Request().Context(), ctx.Param("id"), data))
}

type statusRequest struct {
	Status task.Status `json:"status"`
}

func (api *taskApi) updateStatus(ctx echo.Context) error {
	var data statusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to statusRequest")
	}
	res := contextClient(ctx).UpdateTaskStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	return respond(ctx, http.StatusOK, res)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteTask(ctx.Request().Context(), ctx.Param("id")))
}

// exportCalendar downloads every task of the user as an iCalendar file.
func (api *taskApi) exportCalendar(ctx echo.Context) error {
	res := contextClient(ctx).GetTasks(ctx.Request().Context(), contextUserID(ctx))
	if res.Err != nil {
		return res.Err
	}
	ics := calendar.Export(res.Data, NowFunc().UTC())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+calendar.FileName+`"`)
	return ctx.Blob(http.StatusOK, calendar.ContentType, []byte(ics))
}

func (api *taskApi) emailCalendar(ctx echo.Context) error {
	if api.calendars == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "calendar emails are disabled")
	}
	if err := api.calendars.SendCalendar(ctx.Request().Context(), contextUserID(ctx)); err != nil {
		return errors.Wrap(err, "sending calendar")
	}
	return ctx.NoContent(http.StatusAccepted)
}

type webcalResponse struct {
	URL string `json:"url"`
}

func (api *taskApi) webcal(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, webcalResponse{URL: calendar.WebcalURL(api.conf.WebcalBaseURL, contextUserID(ctx))})
}
