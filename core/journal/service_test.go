package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core/journal"
	"github.com/trezcool/studybuddy/tests"
)

func TestService_entries(t *testing.T) {
	ctx := context.Background()
	env := testutil.Setup(t)
	svc := env.Services.Journal
	ada := env.CreateUser(t, "ada")

	e, err := svc.Create(ctx, ada.ID, journal.NewEntry{Title: " Day one ", Tags: []string{" Exams ", "MOOD"}})
	require.NoError(t, err)
	assert.Equal(t, "Day one", e.Title)
	assert.Equal(t, journal.MoodNeutral, e.Mood)
	assert.Equal(t, []string{"exams", "mood"}, []string(e.Tags))

	_, err = svc.Create(ctx, ada.ID, journal.NewEntry{Title: "x", Mood: "meh"})
	assert.Error(t, err)

	locked := true
	mood := journal.MoodGreat
	e, err = svc.Update(ctx, e.ID, journal.UpdateEntry{IsLocked: &locked, Mood: &mood})
	require.NoError(t, err)
	assert.True(t, e.IsLocked)
	assert.Equal(t, journal.MoodGreat, e.Mood)
	assert.Equal(t, "Day one", e.Title)

	require.NoError(t, svc.Delete(ctx, e.ID))
	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestService_settings(t *testing.T) {
	ctx := context.Background()
	env := testutil.Setup(t)
	svc := env.Services.Journal
	ada := env.CreateUser(t, "ada")

	s, err := svc.GetSettings(ctx, ada.ID)
	require.NoError(t, err)
	assert.False(t, s.HasPasscode())

	gate, err := svc.Unlock(ctx, ada.ID, "sess-1", "")
	require.NoError(t, err, "no passcode, always open")
	assert.False(t, gate.Locked())

	_, err = svc.SaveSettings(ctx, ada.ID, journal.SaveSettings{Passcode: "12"})
	assert.Error(t, err)

	autoLock := 10 * time.Minute
	s, err = svc.SaveSettings(ctx, ada.ID, journal.SaveSettings{Passcode: "2468", AutoLockAfter: &autoLock})
	require.NoError(t, err)
	assert.Equal(t, journal.SettingsView{HasPasscode: true, AutoLockAfter: autoLock}, s.View())

	_, err = svc.Unlock(ctx, ada.ID, "sess-1", "1357")
	assert.ErrorIs(t, err, journal.ErrWrongPasscode)
	gate, err = svc.Unlock(ctx, ada.ID, "sess-1", "2468")
	require.NoError(t, err)
	assert.False(t, gate.Locked())

	// an empty passcode keeps the current one
	s, err = svc.SaveSettings(ctx, ada.ID, journal.SaveSettings{})
	require.NoError(t, err)
	assert.True(t, s.HasPasscode())
	assert.Equal(t, autoLock, s.AutoLockAfter)

	s, err = svc.SaveSettings(ctx, ada.ID, journal.SaveSettings{RemovePasscode: true})
	require.NoError(t, err)
	assert.False(t, s.HasPasscode())
}

func TestService_Gate(t *testing.T) {
	ctx := context.Background()
	env := testutil.Setup(t)
	svc := env.Services.Journal
	ada := env.CreateUser(t, "ada")

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	journal.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { journal.NowFunc = time.Now })

	autoLock := 10 * time.Minute
	_, err := svc.SaveSettings(ctx, ada.ID, journal.SaveSettings{Passcode: "2468", AutoLockAfter: &autoLock})
	require.NoError(t, err)

	locked := func(session string) bool {
		gate, err := svc.Gate(ctx, ada.ID, session)
		require.NoError(t, err)
		return gate.Locked()
	}

	assert.True(t, locked("sess-1"), "never unlocked")
	_, err = svc.Unlock(ctx, ada.ID, "sess-1", "2468")
	require.NoError(t, err)
	assert.False(t, locked("sess-1"))
	assert.True(t, locked("sess-2"), "gates are per session")

	// each read postpones the auto-lock
	now = now.Add(8 * time.Minute)
	assert.False(t, locked("sess-1"))
	now = now.Add(8 * time.Minute)
	assert.False(t, locked("sess-1"))

	now = now.Add(autoLock)
	assert.True(t, locked("sess-1"), "idle too long")
	assert.True(t, locked("sess-1"), "stays locked")

	_, err = svc.Unlock(ctx, ada.ID, "sess-1", "2468")
	require.NoError(t, err)
	svc.Lock(ada.ID)
	assert.True(t, locked("sess-1"))

	_, err = svc.Unlock(ctx, ada.ID, "sess-1", "2468")
	require.NoError(t, err)
	_, err = svc.Unlock(ctx, ada.ID, "sess-1", "1357")
	assert.ErrorIs(t, err, journal.ErrWrongPasscode)
	assert.True(t, locked("sess-1"), "a wrong passcode closes the gate")

	_, err = svc.Unlock(ctx, ada.ID, "sess-1", "2468")
	require.NoError(t, err)
	_, err = svc.SaveSettings(ctx, ada.ID, journal.SaveSettings{Passcode: "9753"})
	require.NoError(t, err)
	assert.True(t, locked("sess-1"), "new settings close open gates")
}
