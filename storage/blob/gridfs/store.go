// Package gridfsblob stores document files in MongoDB GridFS, using the blob path as the file id.
package gridfsblob

import (
	"context"
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/document"
)

type store struct {
	db     *mongo.Database
	bucket string
}

var _ document.BlobStore = (*store)(nil) // interface compliance check

func NewStore(db *mongo.Database, bucket string) document.BlobStore {
	return &store{db: db, bucket: bucket}
}

// Open connects to the configured MongoDB server and returns the blob database.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Blob.MongoURI))
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, pkgerrors.Wrap(err, "pinging mongo")
	}
	return client, client.Database(conf.Blob.MongoDB), nil
}

// open returns a bucket bound to ctx's deadline. Buckets are cheap and hold the deadlines,
// so one is opened per call.
func (s *store) open(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening bucket")
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = bucket.SetWriteDeadline(deadline)
		_ = bucket.SetReadDeadline(deadline)
	}
	return bucket, nil
}

func (s *store) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bucket, err := s.open(ctx)
	if err != nil {
		return err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	return pkgerrors.Wrap(bucket.UploadFromStreamWithID(path, path, r, opts), "uploading blob")
}

func (s *store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := bucket.OpenDownloadStream(path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, document.ErrBlobNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening blob")
	}
	return stream, nil
}

func (s *store) Delete(ctx context.Context, path string) error {
	bucket, err := s.open(ctx)
	if err != nil {
		return err
	}
	err = bucket.DeleteContext(ctx, path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return document.ErrBlobNotFound
	}
	return pkgerrors.Wrap(err, "deleting blob")
}
