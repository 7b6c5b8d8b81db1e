// Package backend is the query façade over the domain services.
// Every operation returns a core.Result: expected failures (not found, invalid input,
// no session) come back as data, never as a panic or a bare error.
// Rows are only visible to the user owning them, as with row-level security.
package backend

import (
	"context"
	"errors"
	"sync"

	ut "github.com/go-playground/universal-translator"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/course"
	"github.com/trezcool/studybuddy/core/document"
	"github.com/trezcool/studybuddy/core/user"
)

var (
	// errors
	ErrUnauthenticated = errors.New("not signed in")
	ErrForbidden       = errors.New("permission denied")
)

type Client struct {
	svcs       *Services
	translator ut.Translator
	logger     core.Logger

	mu    sync.RWMutex
	token string
}

func New(svcs *Services, translator ut.Translator, logger core.Logger) *Client {
	return &Client{svcs: svcs, translator: translator, logger: logger}
}

// WithToken returns a client sharing c's services, acting for the session behind token.
func (c *Client) WithToken(token string) *Client {
	return &Client{svcs: c.svcs, translator: c.translator, logger: c.logger, token: token}
}

// Session returns the current session token ("" when signed out).
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setSession(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func result[T any](c *Client, data T, err error) core.Result[T] {
	if err != nil {
		return core.Fail[T](core.TranslateValidationErrors(err, c.translator))
	}
	return core.Ok(data)
}

func void(c *Client, err error) core.Result[core.Void] {
	return result(c, core.Void{}, err)
}

// sessionUser returns the id of the signed-in user.
func (c *Client) sessionUser(ctx context.Context) (string, error) {
	token := c.Session()
	if token == "" {
		return "", ErrUnauthenticated
	}
	userID, err := c.svcs.Users.Authenticate(ctx, token)
	if errors.Is(err, user.ErrInvalidToken) {
		return "", ErrUnauthenticated
	}
	return userID, err
}

// self checks that userID is the signed-in user.
func (c *Client) self(ctx context.Context, userID string) error {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return err
	}
	if uid != userID {
		return ErrForbidden
	}
	return nil
}

// owned hides rows of other users behind notFound.
func owned(uid, ownerID string, notFound error) error {
	if uid != ownerID {
		return notFound
	}
	return nil
}

func (c *Client) ownCourse(ctx context.Context, courseID string) (string, course.Course, error) {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return "", course.Course{}, err
	}
	crs, err := c.svcs.Courses.Get(ctx, courseID)
	if err != nil {
		return "", course.Course{}, err
	}
	return uid, crs, owned(uid, crs.UserID, course.ErrNotFound)
}

func (c *Client) ownDocument(ctx context.Context, id string) (document.Document, error) {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return document.Document{}, err
	}
	doc, err := c.svcs.Documents.Get(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	return doc, owned(uid, doc.UserID, document.ErrNotFound)
}

// optionalCourse checks that a referenced course (if any) belongs to uid.
func (c *Client) optionalCourse(ctx context.Context, uid string, courseID *string) error {
	if courseID == nil || *courseID == "" {
		return nil
	}
	crs, err := c.svcs.Courses.Get(ctx, *courseID)
	if err != nil {
		return err
	}
	return owned(uid, crs.UserID, course.ErrNotFound)
}
