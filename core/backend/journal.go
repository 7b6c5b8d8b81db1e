package backend

import (
	"context"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/journal"
)

func (c *Client) GetJournalEntries(ctx context.Context, userID string) core.Result[[]journal.Entry] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[[]journal.Entry](err)
	}
	entries, err := c.svcs.Journal.Query(ctx, userID)
	return result(c, entries, err)
}

func (c *Client) CreateJournalEntry(ctx context.Context, userID string, ne journal.NewEntry) core.Result[journal.Entry] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[journal.Entry](err)
	}
	e, err := c.svcs.Journal.Create(ctx, userID, ne)
	return result(c, e, err)
}

func (c *Client) UpdateJournalEntry(ctx context.Context, id string, ue journal.UpdateEntry) core.Result[journal.Entry] {
	if err := c.ownEntry(ctx, id); err != nil {
		return core.Fail[journal.Entry](err)
	}
	e, err := c.svcs.Journal.Update(ctx, id, ue)
	return result(c, e, err)
}

func (c *Client) DeleteJournalEntry(ctx context.Context, id string) core.Result[core.Void] {
	if err := c.ownEntry(ctx, id); err != nil {
		return void(c, err)
	}
	return void(c, c.svcs.Journal.Delete(ctx, id))
}

func (c *Client) GetJournalSettings(ctx context.Context, userID string) core.Result[journal.SettingsView] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[journal.SettingsView](err)
	}
	s, err := c.svcs.Journal.GetSettings(ctx, userID)
	return result(c, s.View(), err)
}

func (c *Client) SaveJournalSettings(ctx context.Context, userID string, ss journal.SaveSettings) core.Result[journal.SettingsView] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[journal.SettingsView](err)
	}
	s, err := c.svcs.Journal.SaveSettings(ctx, userID, ss)
	return result(c, s.View(), err)
}

// UnlockJournal returns an open gate when passcode matches the user's settings.
// The gate stays open for this session until it auto-locks.
func (c *Client) UnlockJournal(ctx context.Context, userID, passcode string) core.Result[*journal.Gate] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[*journal.Gate](err)
	}
	gate, err := c.svcs.Journal.Unlock(ctx, userID, c.Session(), passcode)
	return result(c, gate, err)
}

// JournalGate returns this session's gate, postponing its auto-lock when it is open.
func (c *Client) JournalGate(ctx context.Context, userID string) core.Result[*journal.Gate] {
	if err := c.self(ctx, userID); err != nil {
		return core.Fail[*journal.Gate](err)
	}
	gate, err := c.svcs.Journal.Gate(ctx, userID, c.Session())
	return result(c, gate, err)
}

func (c *Client) LockJournal(ctx context.Context, userID string) core.Result[core.Void] {
	if err := c.self(ctx, userID); err != nil {
		return void(c, err)
	}
	c.svcs.Journal.Lock(userID)
	return void(c, nil)
}

func (c *Client) ownEntry(ctx context.Context, id string) error {
	uid, err := c.sessionUser(ctx)
	if err != nil {
		return err
	}
	e, err := c.svcs.Journal.Get(ctx, id)
	if err != nil {
		return err
	}
	return owned(uid, e.UserID, journal.ErrNotFound)
}
