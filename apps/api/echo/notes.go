package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core/note"
)

type noteApi struct{}

func registerNoteAPI(g *echo.Group, auth echo.MiddlewareFunc, _ ServerDeps) {
	api := noteApi{}

	ng := g.Group("/notes", auth)
	ng.GET("", api.query)
	ng.POST("", api.create)
	ng.PATCH("/:id", api.update)
	ng.DELETE("/:id", api.destroy)
}

type renderedNote struct {
	note.Note
	HTML string `json:"html"`
}

// query lists the notes of the user, optionally of a single course ("?course_id=").
// "?render=html" adds the HTML rendition of each note.
func (api *noteApi) query(ctx echo.Context) error {
	res := contextClient(ctx).GetNotes(ctx.Request().Context(), contextUserID(ctx), optionalParam(ctx, "course_id"))
	if res.Err != nil || ctx.QueryParam("render") != "html" {
		return respond(ctx, http.StatusOK, res)
	}

	rendered := make([]renderedNote, 0, len(res.Data))
	for _, n := range res.Data {
		html, err := note.RenderHTML(n.Content)
		if err != nil {
			return errors.Wrapf(err, "rendering note %s", n.ID)
		}
		rendered = append(rendered, renderedNote{Note: n, HTML: html})
	}
	return ctx.JSON(http.StatusOK, rendered)
}

func (api *noteApi) create(ctx echo.Context) error {
	var data note.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	return respond(ctx, http.StatusCreated, contextClient(ctx).CreateNote(ctx.Request().Context(), contextUserID(ctx), data))
}

func (api *noteApi) update(ctx echo.Context) error {
	var data note.UpdateNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNote")
	}
	return respond(ctx, http.StatusOK, contextClient(ctx).UpdateNote(ctx.Request().Context(), ctx.Param("id"), data))
}

func (api *noteApi) destroy(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteNote(ctx.Request().Context(), ctx.Param("id")))
}
