package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
)

var (
	// errors
	ErrNotFound     = errors.New("document not found")
	ErrBlobNotFound = errors.New("blob not found")
	ErrEmptyFile    = errors.New("file is empty")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		QueryDocuments(ctx context.Context, courseID string) ([]Document, error)
		GetDocument(ctx context.Context, id string) (Document, error)
		CreateDocument(ctx context.Context, doc Document) (Document, error)
		SetContent(ctx context.Context, id string, content *string) (Document, error)
		DeleteDocument(ctx context.Context, id string) error
	}

	// BlobStore stores the raw bytes of uploaded files.
	BlobStore interface {
		Put(ctx context.Context, path string, r io.Reader, contentType string) error
		// Open returns ErrBlobNotFound when nothing is stored at path.
		Open(ctx context.Context, path string) (io.ReadCloser, error)
		Delete(ctx context.Context, path string) error
	}

	// Extractor pulls the plain text out of a file. It returns nil for unsupported types.
	Extractor interface {
		Extract(ctx context.Context, fileType string, r io.Reader) (*string, error)
	}

	Service struct {
		repo      Repository
		blobs     BlobStore
		extractor Extractor
		validate  *validator.Validate
		logger    core.Logger
	}
)

func NewService(repo Repository, blobs BlobStore, extractor Extractor, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{
		repo:      repo,
		blobs:     blobs,
		extractor: extractor,
		validate:  validate,
		logger:    logger,
	}
}

func (svc *Service) Query(ctx context.Context, courseID string) ([]Document, error) {
	docs, err := svc.repo.QueryDocuments(ctx, courseID)
	return docs, pkgerrors.Wrap(err, "querying documents")
}

func (svc *Service) Get(ctx context.Context, id string) (Document, error) {
	doc, err := svc.repo.GetDocument(ctx, id)
	return doc, pkgerrors.Wrap(err, "getting document")
}

// StoragePath namespaces the blob by user and course; the file name is random
// so two uploads of the same file never collide.
func StoragePath(userID, courseID, fileName string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", pkgerrors.Wrap(err, "generating file name")
	}
	return path.Join(userID, courseID, id+strings.ToLower(path.Ext(fileName))), nil
}

// Upload stores the file bytes, then the metadata row referencing them.
// When the row cannot be created the stored blob is deleted again.
func (svc *Service) Upload(ctx context.Context, courseID, userID string, file File, opts UploadOptions) (Document, error) {
	name := core.CleanString(path.Base(file.Name))
	if name == "" || name == "." || name == "/" {
		return Document{}, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file name is required"})
	}
	if err := svc.validate.Struct(opts); err != nil {
		return Document{}, err
	}
	if file.Body == nil {
		return Document{}, ErrEmptyFile
	}

	storagePath, err := StoragePath(userID, courseID, name)
	if err != nil {
		return Document{}, err
	}
	fileType := FileType(name, file.ContentType)

	// step 1: blob
	if err = svc.blobs.Put(ctx, storagePath, file.Body, fileType); err != nil {
		return Document{}, pkgerrors.Wrap(err, "uploading file")
	}

	// step 2: metadata row
	tags := make(core.StringList, 0, len(opts.Tags))
	for _, t := range opts.Tags {
		tags = append(tags, core.CleanString(t))
	}
	doc, err := svc.repo.CreateDocument(ctx, Document{
		ID:          uuid.NewString(),
		UserID:      userID,
		CourseID:    courseID,
		ChapterID:   core.CleanStringPtr(opts.ChapterID),
		TopicID:     core.CleanStringPtr(opts.TopicID),
		Name:        name,
		StoragePath: storagePath,
		FileType:    fileType,
		Tags:        tags,
		CreatedAt:   NowFunc().UTC(),
	})
	if err != nil {
		// compensating delete: no blob without a row
		if delErr := svc.blobs.Delete(context.WithoutCancel(ctx), storagePath); delErr != nil {
			svc.logger.Error(fmt.Sprintf("removing orphaned blob %s: %v", storagePath, delErr), delErr)
		}
		return Document{}, pkgerrors.Wrap(err, "creating document")
	}
	return doc, nil
}

// Delete removes the blob, then the row.
// A storage failure is logged and does not prevent the row deletion.
func (svc *Service) Delete(ctx context.Context, id string) error {
	doc, err := svc.repo.GetDocument(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(err, "getting document")
	}
	svc.deleteBlob(ctx, doc.StoragePath)
	return pkgerrors.Wrap(svc.repo.DeleteDocument(ctx, id), "deleting document")
}

// DeleteCourseBlobs removes the blobs of every document of the course.
// Rows are left to the course deletion cascade.
func (svc *Service) DeleteCourseBlobs(ctx context.Context, courseID string) error {
	docs, err := svc.repo.QueryDocuments(ctx, courseID)
	if err != nil {
		return pkgerrors.Wrap(err, "querying documents")
	}
	for _, doc := range docs {
		svc.deleteBlob(ctx, doc.StoragePath)
	}
	return nil
}

func (svc *Service) deleteBlob(ctx context.Context, storagePath string) {
	if storagePath == "" {
		return
	}
	if err := svc.blobs.Delete(ctx, storagePath); err != nil && !errors.Is(err, ErrBlobNotFound) {
		svc.logger.Warn(fmt.Sprintf("deleting blob %s (continuing with database deletion): %v", storagePath, err), err)
	}
}

func (svc *Service) Open(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	doc, err := svc.repo.GetDocument(ctx, id)
	if err != nil {
		return Document{}, nil, pkgerrors.Wrap(err, "getting document")
	}
	rc, err := svc.blobs.Open(ctx, doc.StoragePath)
	if err != nil {
		return Document{}, nil, pkgerrors.Wrap(err, "opening file")
	}
	return doc, rc, nil
}

func (svc *Service) SetContent(ctx context.Context, id string, content *string) (Document, error) {
	doc, err := svc.repo.SetContent(ctx, id, content)
	return doc, pkgerrors.Wrap(err, "setting document content")
}

// Process extracts the text of the stored file and saves it as the document's content.
// Unsupported file types keep a nil content.
func (svc *Service) Process(ctx context.Context, id string) (Document, error) {
	doc, rc, err := svc.Open(ctx, id)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = rc.Close() }()

	if svc.extractor == nil {
		return doc, nil
	}
	content, err := svc.extractor.Extract(ctx, doc.FileType, rc)
	if err != nil {
		return Document{}, pkgerrors.Wrap(err, "extracting text")
	}
	if content == nil {
		return doc, nil
	}
	return svc.SetContent(ctx, id, content)
}

// FileType returns the media type of the file, preferring the declared one.
func FileType(name, declared string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".md", ".markdown":
		return "text/markdown"
	case "":
		return "application/octet-stream"
	default:
		if mt := mime.TypeByExtension(ext); mt != "" {
			if base, _, err := mime.ParseMediaType(mt); err == nil {
				return base
			}
		}
		return "application/octet-stream"
	}
}
