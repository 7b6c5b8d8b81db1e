package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/voicescript"
)

func (c *Client) GetVoiceScripts(ctx context.Context, userID string) core.Result[[]voicescript.VoiceScript] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]voicescript.VoiceScript](err)
	}
	scripts, err := c.svcs.VoiceScripts.Query(ctx, userID)
	return result(c, scripts, err)
}

func (c *Client) CreateVoiceScript(ctx context.Context, userID string, nv voicescript.NewVoiceScript) core.Result[voicescript.VoiceScript] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[voicescript.VoiceScript](err)
	}
	vs, err := c.svcs.VoiceScripts.Create(ctx, userID, nv)
	return result(c, vs, err)
}

func (c *Client) UpdateVoiceScript(ctx context.Context, id string, uv voicescript.UpdateVoiceScript) core.Result[voicescript.VoiceScript] {
	if err := c.ownVoiceScript(ctx, id); err != nil {
		return core.Fail[voicescript.VoiceScript](err)
	}
	vs, err := c.svcs.VoiceScripts.Update(ctx, id, uv)
	return result(c, vs, err)
}

func (c *Client) DeleteVoiceScript(ctx context.Context, id string) core.Result[core.Void] {
	if err := c.ownVoiceScript(ctx, id); err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.VoiceScripts.Delete(ctx, id))
}

func (c *Client) ownVoiceScript(ctx context.Context, id string) error {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return err
	}
	vs, err := c.svcs.VoiceScripts.Get(ctx, id)
	if err != nil {
		return err
	}
	return owned(uid, vs.UserID, voicescript.ErrNotFound)
}
