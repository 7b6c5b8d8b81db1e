package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core/journal"
)

type journalApi struct{}

func registerJournalAPI(g *echo.Group, auth echo.MiddlewareFunc, _ ServerDeps) {
	api := journalApi{}

	jg := g.Group("/journal", auth)
	jg.GET("/entries", api.query)
	jg.POST("/entries", api.create)
	jg.PATCH("/entries/:id", api.update)
	jg.DELETE("/entries/:id", api.destroy)
	jg.GET("/settings", api.settings)
	jg.PUT("/settings", api.saveSettings)
	jg.POST("/unlock", api.unlock)
	jg.POST("/lock", api.lock)
}

// query lists the entries the session's gate lets through: locked entries are left out
// while a passcode is set and the journal is not unlocked (or auto-locked since).
func (api *journalApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	client := contextClient(ctx)
	gate := client.JournalGate(reqCtx, contextUserID(ctx))
	if gate.Err != nil {
		return gate.Err
	}
	res := client.GetJournalEntries(reqCtx, contextUserID(ctx))
	if res.Err != nil {
		return res.Err
	}
	return ctx.JSON(http.StatusOK, gate.Data.Visible(res.Data))
}

func (api *journalApi) create(ctx echo.Context) error {
	var data journal.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	res := contextClient(ctx).CreateJournalEntry(ctx.Request().Context(), contextUserID(ctx), data)
	return respond(ctx, http.StatusCreated, res)
}

func (api *journalApi) update(ctx echo.Context) error {
	var data journal.UpdateEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}
	res := contextClient(ctx).UpdateJournalEntry(ctx.Request().Context(), ctx.Param("id"), data)
	return respond(ctx, http.StatusOK, res)
}

func (api *journalApi) destroy(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteJournalEntry(ctx.Request().Context(), ctx.Param("id")))
}

func (api *journalApi) settings(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetJournalSettings(ctx.Request().Context(), contextUserID(ctx)))
}

func (api *journalApi) saveSettings(ctx echo.Context) error {
	var data journal.SaveSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveSettings")
	}
	res := contextClient(ctx).SaveJournalSettings(ctx.Request().Context(), contextUserID(ctx), data)
	return respond(ctx, http.StatusOK, res)
}

type unlockRequest struct {
	Passcode string `json:"passcode"`
}

// unlock returns every entry, locked ones included, when the passcode matches.
func (api *journalApi) unlock(ctx echo.Context) error {
	var data unlockRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to unlockRequest")
	}
	reqCtx := ctx.Request().Context()
	client := contextClient(ctx)
	gate := client.UnlockJournal(reqCtx, contextUserID(ctx), data.Passcode)
	if gate.Err != nil {
		return gate.Err
	}
	res := client.GetJournalEntries(reqCtx, contextUserID(ctx))
	if res.Err != nil {
		return res.Err
	}
	return ctx.JSON(http.StatusOK, gate.Data.Visible(res.Data))
}

func (api *journalApi) lock(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).LockJournal(ctx.Request().Context(), contextUserID(ctx)))
}
