package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/services/extract"
)

type documentApi struct {
	ai     AIService
	logger core.Logger
}

func registerDocumentAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := documentApi{ai: deps.AI, logger: deps.Logger}

	g.GET("/courses/:id/documents", api.query, auth)
	g.POST("/courses/:id/documents", api.upload, auth,
		middleware.BodyLimit(fmt.Sprintf("%dM", extract.MaxFileSize>>20)))

	dg := g.Group("/documents/:id", auth)
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/process", api.process)
	dg.POST("/ai", api.runAction)
}

func (api *documentApi) query(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetDocuments(ctx.Request().Context(), ctx.Param("id")))
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).GetDocument(ctx.Request().Context(), ctx.Param("id")))
}

// upload stores a multipart "file" then extracts its text. An extraction failure keeps the
// document, AI actions just stay disabled for it.
func (api *documentApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	opts := document.UploadOptions{
		ChapterID: core.CleanStringPtr(ptr(ctx.FormValue("chapter_id"))),
		TopicID:   core.CleanStringPtr(ptr(ctx.FormValue("topic_id"))),
	}
	if form, err := ctx.MultipartForm(); err == nil {
		opts.Tags = form.Value["tags"]
	}

	reqCtx := ctx.Request().Context()
	client := contextClient(ctx)
	file := document.File{Name: fh.Filename, ContentType: fh.Header.Get(echo.HeaderContentType), Body: f}
	res := client.UploadDocument(reqCtx, ctx.Param("id"), contextUserID(ctx), file, opts)
	if res.Err != nil {
		return res.Err
	}

	doc := res.Data
	if extract.Supported(doc.FileType) {
		if processed := client.ProcessDocument(reqCtx, doc.ID); processed.Err != nil {
			api.logger.Warn(fmt.Sprintf("extracting text of document %s: %v", doc.ID, processed.Err), processed.Err)
		} else {
			doc = processed.Data
		}
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) process(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, contextClient(ctx).ProcessDocument(ctx.Request().Context(), ctx.Param("id")))
}

func (api *documentApi) destroy(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).DeleteDocument(ctx.Request().Context(), ctx.Param("id")))
}

type actionResponse struct {
	Action document.Action `json:"action"`
	Result string          `json:"result"`
}

// runAction runs an AI action on the document's extracted text. Documents without text are
// refused before the AI service is called.
func (api *documentApi) runAction(ctx echo.Context) error {
	var data document.ActionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActionRequest")
	}
	action, err := document.ParseAction(string(data.Action))
	if err != nil {
		return err
	}

	res := contextClient(ctx).GetDocument(ctx.Request().Context(), ctx.Param("id"))
	if res.Err != nil {
		return res.Err
	}
	doc := res.Data
	if err = doc.CheckAIReady(); err != nil {
		return err
	}

	out, err := api.ai.DocumentAction(ctx.Request().Context(), contextToken(ctx), action, *doc.Content)
	if err != nil {
		return errors.Wrap(err, "running document action")
	}
	return ctx.JSON(http.StatusOK, actionResponse{Action: action, Result: out})
}
