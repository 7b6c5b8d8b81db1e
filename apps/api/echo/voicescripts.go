package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core/voicescript"
)

type voiceScriptApi struct{}

func registerVoiceScriptAPI(g *echo.Group, auth echo.MiddlewareFunc, _ ServerDeps) {
	api := voiceScriptApi{}

	vg := g.Group("/voice-scripts", auth)
	vg.GET("", api.query)
	vg.POST("", api.create)
	vg.PATCH("/:id", api.update)
	vg.DELETE("/:id", api.destroy)
}

func (api *voiceScriptApi) query(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetVoiceScripts(ctx.Request().Context(), contextUserID(ctx)))
}

func (api *voiceScriptApi) create(ctx echo.Context) error {
	var data voicescript.NewVoiceScript
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVoiceScript")
	}
	res := contextClient(ctx).CreateVoiceScript(ctx.Request().Context(), contextUserID(ctx), data)
	return respond(ctx, http.StatusCreated, res)
}

func (api *voiceScriptApi) update(ctx echo.Context) error {
	var data voicescript.UpdateVoiceScript
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateVoiceScript")
	}
	res := contextClient(ctx).UpdateVoiceScript(ctx.Request().Context(), ctx.Param("id"), data)
	return respond(ctx, http.StatusOK, res)
}

func (api *voiceScriptApi) destroy(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteVoiceScript(ctx.Request().Context(), ctx.Param("id")))
}
