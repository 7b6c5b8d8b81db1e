package backend

import (
	"context"
	"errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
)

func (c *Client) GetDocuments(ctx context.Context, courseID string) core.Result[[]document.Document] {
	if _, _, err := c.ownCourse(ctx, courseID); err != nil {
		return core.Fail[[]document.Document](err)
	}
	docs, err := c.svcs.Documents.Query(ctx, courseID)
	return result(c, docs, err)
}

func (c *Client) GetDocument(ctx context.Context, id string) core.Result[document.Document] {
	doc, err := c.ownDocument(ctx, id)
	return result(c, doc, err)
}

// UploadDocument stores the file then its metadata row. No row is created when the file
// could not be stored, and the file is removed again when the row could not be created.
func (c *Client) UploadDocument(ctx context.Context, courseID, userID string, file document.File, opts ...document.UploadOptions) core.Result[document.Document] {
	uid, crs, err := c.ownCourse(ctx, courseID)
	if err != nil {
		return core.Fail[document.Document](err)
	}
	if uid != userID {
		return core.Fail[document.Document](ErrForbidden)
	}
	var opt document.UploadOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if err = checkSyllabusRef(crs.Syllabus, opt); err != nil {
		return core.Fail[document.Document](err)
	}
	doc, err := c.svcs.Documents.Upload(ctx, courseID, userID, file, opt)
	return result(c, doc, err)
}

func checkSyllabusRef(syllabus *course.Syllabus, opt document.UploadOptions) error {
	if opt.ChapterID == nil || *opt.ChapterID == "" {
		return nil
	}
	var topicID string
	if opt.TopicID != nil {
		topicID = *opt.TopicID
	}
	if err := syllabus.Locate(*opt.ChapterID, topicID); err != nil {
		field := "chapter_id"
		if errors.Is(err, course.ErrTopicNotFound) {
			field = "topic_id"
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// SetDocumentContent stores extracted text; a nil content disables AI actions again.
func (c *Client) SetDocumentContent(ctx context.Context, id string, content *string) core.Result[document.Document] {
	if _, err := c.ownDocument(ctx, id); err != nil {
		return core.Fail[document.Document](err)
	}
	doc, err := c.svcs.Documents.SetContent(ctx, id, content)
	return result(c, doc, err)
}

// ProcessDocument extracts the text of the stored file.
func (c *Client) ProcessDocument(ctx context.Context, id string) core.Result[document.Document] {
	if _, err := c.ownDocument(ctx, id); err != nil {
		return core.Fail[document.Document](err)
	}
	doc, err := c.svcs.Documents.Process(ctx, id)
	return result(c, doc, err)
}

// DeleteDocument removes the file then the row. A storage failure does not keep the row.
func (c *Client) DeleteDocument(ctx context.Context, id string) core.Result[core.Void] {
	if _, err := c.ownDocument(ctx, id); err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.Documents.Delete(ctx, id))
}
