package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/backend"
	"github.com/trezcool/studybuddy/core/user"
)

const (
	contextClientKey = "client"
	contextUserKey   = "userID"
	contextTokenKey  = "token"
)

// Authenticator resolves a session token to the id of its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// bearerAuth checks the "Authorization: Bearer <token>" header and stores a client acting for
// the session in the request context.
func bearerAuth(sessions Authenticator, client *backend.Client) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(token string, ctx echo.Context) (bool, error) {
			userID, err := sessions.Authenticate(ctx.Request().Context(), token)
			if err != nil {
				if errors.Is(err, user.ErrInvalidToken) {
					return false, errUnauthorized
				}
				return false, errors.Wrap(err, "authenticating session")
			}
			ctx.Set(contextClientKey, client.WithToken(token))
			ctx.Set(contextUserKey, userID)
			ctx.Set(contextTokenKey, token)
			return true, nil
		},
		ErrorHandler: func(err error, _ echo.Context) error {
			var missing *middleware.ErrKeyAuthMissing
			if errors.As(err, &missing) {
				return errMissingToken
			}
			return err
		},
	})
}

func contextClient(ctx echo.Context) *backend.Client {
	client, _ := ctx.Get(contextClientKey).(*backend.Client)
	return client
}

func contextUserID(ctx echo.Context) string {
	userID, _ := ctx.Get(contextUserKey).(string)
	return userID
}

func contextToken(ctx echo.Context) string {
	token, _ := ctx.Get(contextTokenKey).(string)
	return token
}

// respond writes the data of res, or returns its error to the error handler.
func respond[T any](ctx echo.Context, code int, res core.Result[T]) error {
	if res.Err != nil {
		return res.Err
	}
	return ctx.JSON(code, res.Data)
}

func respondNoContent(ctx echo.Context, res core.Result[core.Void]) error {
	if res.Err != nil {
		return res.Err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type authApi struct {
	client *backend.Client
}

func registerAuthAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{client: deps.Client}

	ag := g.Group("/auth")
	ag.POST("/signup", api.signUp)
	ag.POST("/signin", api.signIn)
	ag.POST("/signout", api.signOut, auth)

	g.GET("/me", api.me, auth)
	g.PATCH("/me", api.updateMe, auth)
}

func (api *authApi) signUp(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	return respond(ctx, http.StatusCreated, api.client.SignUpWith(ctx.Request().Context(), data))
}

func (api *authApi) signIn(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	// the shared client must not keep the session
	client := api.client.WithToken("")
	return respond(ctx, http.StatusOK, client.SignIn(ctx.Request().Context(), data.Email, data.Password))
}

func (api *authApi) signOut(ctx echo.Context) error {
	return respondNoContent(ctx, contextClient(ctx).SignOut(ctx.Request().Context()))
}

func (api *authApi) me(ctx echo.Context) error {
	res := contextClient(ctx).GetCurrentUser(ctx.Request().Context())
	if res.Err == nil && res.Data == nil {
		return errUnauthorized
	}
	return respond(ctx, http.StatusOK, res)
}

func (api *authApi) updateMe(ctx echo.Context) error {
	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	return respond(ctx, http.StatusOK, contextClient(ctx).UpdateProfile(ctx.Request().Context(), data))
}
