package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) add(d time.Duration) { c.t = c.t.Add(d) }

func settingsWith(t *testing.T, passcode string, autoLock time.Duration) Settings {
	s := Settings{UserID: "u1", AutoLockAfter: autoLock}
	if passcode != "" {
		require.NoError(t, s.SetPasscode(passcode))
	}
	return s
}

func TestSettings_SetPasscode(t *testing.T) {
	var s Settings
	assert.Error(t, s.SetPasscode("123"))
	assert.False(t, s.HasPasscode())
	assert.True(t, s.CheckPasscode("anything"))

	require.NoError(t, s.SetPasscode("1234"))
	assert.True(t, s.HasPasscode())
	assert.True(t, s.CheckPasscode("1234"))
	assert.False(t, s.CheckPasscode("4321"))
	assert.Equal(t, SettingsView{HasPasscode: true}, s.View())
}

func TestGate(t *testing.T) {
	entries := []Entry{{ID: "open"}, {ID: "secret", IsLocked: true}}
	ids := func(es []Entry) []string {
		out := make([]string, 0, len(es))
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	t.Run("no passcode", func(t *testing.T) {
		g := NewGate(settingsWith(t, "", 0), nil)
		assert.False(t, g.Locked())
		assert.NoError(t, g.Unlock(""))
		assert.Equal(t, []string{"open", "secret"}, ids(g.Visible(entries)))
	})

	t.Run("wrong passcode", func(t *testing.T) {
		g := NewGate(settingsWith(t, "1234", 0), nil)
		assert.True(t, g.Locked())
		assert.ErrorIs(t, g.Unlock("0000"), ErrWrongPasscode)
		assert.True(t, g.Locked())
		assert.Equal(t, []string{"open"}, ids(g.Visible(entries)))
	})

	t.Run("unlock then lock", func(t *testing.T) {
		g := NewGate(settingsWith(t, "1234", 0), nil)
		require.NoError(t, g.Unlock("1234"))
		assert.False(t, g.Locked())
		assert.Equal(t, []string{"open", "secret"}, ids(g.Visible(entries)))
		g.Lock()
		assert.True(t, g.Locked())
		assert.False(t, g.Touch())
	})

	t.Run("a wrong passcode locks an open gate", func(t *testing.T) {
		g := NewGate(settingsWith(t, "1234", 0), nil)
		require.NoError(t, g.Unlock("1234"))
		assert.ErrorIs(t, g.Unlock("nope"), ErrWrongPasscode)
		assert.True(t, g.Locked())
	})

	t.Run("auto lock", func(t *testing.T) {
		c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
		g := NewGate(settingsWith(t, "1234", 5*time.Minute), c.now)
		require.NoError(t, g.Unlock("1234"))

		c.add(4 * time.Minute)
		assert.True(t, g.Touch())
		c.add(4 * time.Minute) // 8m after unlock, 4m after activity
		assert.False(t, g.Locked())

		c.add(5 * time.Minute)
		assert.True(t, g.Locked())
		assert.Equal(t, []string{"open"}, ids(g.Visible(entries)))
	})
}
