package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/user"
)

// SignUp creates the identity then the profile. A profile failure is an error even though
// the identity exists.
func (c *Client) SignUp(ctx context.Context, email, password, name string) core.Result[user.User] {
	return c.SignUpWith(ctx, user.NewUser{Email: email, Password: password, Name: name})
}

func (c *Client) SignUpWith(ctx context.Context, nu user.NewUser) core.Result[user.User] {
	usr, err := c.svcs.Users.SignUp(ctx, nu)
	return result(c, usr, err)
}

// SignIn opens a session; the client then acts for the signed-in user.
// A profile read failure fails the sign-in even when the credentials were valid.
func (c *Client) SignIn(ctx context.Context, email, password string) core.Result[user.Session] {
	sess, err := c.svcs.Users.SignIn(ctx, user.Credentials{Email: email, Password: password})
	if err == nil {
		c.setSession(sess.Token)
	}
	return result(c, sess, err)
}

func (c *Client) SignOut(ctx context.Context) core.Result[core.Void] {
	if err := c.svcs.Users.SignOut(ctx, c.Session()); err != nil {
		return void(c, err)
	}
	c.setSession("")
	return core.OkVoid()
}

// GetCurrentUser returns Ok(nil) when there is no session.
func (c *Client) GetCurrentUser(ctx context.Context) core.Result[*user.User] {
	usr, err := c.svcs.Users.CurrentUser(ctx, c.Session())
	return result(c, usr, err)
}

func (c *Client) UpdateProfile(ctx context.Context, up user.UpdateProfile) core.Result[user.User] {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return core.Fail[user.User](err)
	}
	usr, err := c.svcs.Users.UpdateProfile(ctx, uid, up)
	return result(c, usr, err)
}
