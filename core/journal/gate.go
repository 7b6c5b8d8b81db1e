package journal

import (
	"errors"
	"sync"
	"time"
)

var ErrWrongPasscode = errors.New("wrong passcode")

// Gate hides the journal behind the passcode and locks it again after AutoLockAfter of
// inactivity. It is a UI gate, not a security boundary.
type Gate struct {
	mu         sync.Mutex
	settings   Settings
	unlocked   bool
	lastActive time.Time
	now        func() time.Time
}

func NewGate(settings Settings, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{settings: settings, now: now}
}

// Unlock opens the gate when passcode matches. Without a passcode the gate is always open.
func (g *Gate) Unlock(passcode string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.settings.CheckPasscode(passcode) {
		g.unlocked = false
		return ErrWrongPasscode
	}
	g.unlocked = true
	g.lastActive = g.now()
	return nil
}

func (g *Gate) AutoLockAfter() time.Duration { return g.settings.AutoLockAfter }

func (g *Gate) Lock() {
	g.mu.Lock()
	g.unlocked = false
	g.mu.Unlock()
}

// Locked reports whether the journal is hidden, locking it first if it was idle too long.
func (g *Gate) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lockedLocked()
}

func (g *Gate) lockedLocked() bool {
	if !g.settings.HasPasscode() {
		return false
	}
	if g.unlocked && g.settings.AutoLockAfter > 0 && g.now().Sub(g.lastActive) >= g.settings.AutoLockAfter {
		g.unlocked = false
	}
	return !g.unlocked
}

// Touch records activity, postponing the auto-lock. It returns false if the gate was locked.
func (g *Gate) Touch() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lockedLocked() {
		return false
	}
	g.lastActive = g.now()
	return true
}

// Visible filters out locked entries while the gate is closed.
func (g *Gate) Visible(entries []Entry) []Entry {
	if !g.Locked() {
		return entries
	}
	visible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsLocked {
			visible = append(visible, e)
		}
	}
	return visible
}
