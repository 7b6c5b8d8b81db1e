package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
)

var (
	// errors
	ErrNotFound = errors.New("journal entry not found")

	NowFunc = time.Now // mockable

	DefaultAutoLockAfter = 5 * time.Minute

	// how long an open gate without auto-lock is kept for its session
	openGateTTL = 24 * time.Hour
)

type (
	Repository interface {
		// QueryEntries returns the user's entries, newest first.
		QueryEntries(ctx context.Context, userID string) ([]Entry, error)
		GetEntry(ctx context.Context, id string) (Entry, error)
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		UpdateEntry(ctx context.Context, e Entry) (Entry, error)
		DeleteEntry(ctx context.Context, id string) error
		// GetSettings returns default settings when the user has none yet.
		GetSettings(ctx context.Context, userID string) (Settings, error)
		SaveSettings(ctx context.Context, s Settings) (Settings, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		gates    *cache.Cache // "userID/session" -> *Gate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate, gates: cache.New(openGateTTL, 10*time.Minute)}
}

func gateKey(userID, session string) string { return userID + "/" + session }

func gateTTL(autoLockAfter time.Duration) time.Duration {
	if autoLockAfter > 0 {
		return autoLockAfter
	}
	return cache.DefaultExpiration
}

func newGate(s Settings) *Gate {
	return NewGate(s, func() time.Time { return NowFunc() })
}

func cleanTags(tags []string) core.StringList {
	cleaned := make(core.StringList, 0, len(tags))
	for _, t := range tags {
		cleaned = append(cleaned, core.CleanString(t, true /* lower */))
	}
	return cleaned
}

func (svc *Service) Query(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := svc.repo.QueryEntries(ctx, userID)
	return entries, pkgerrors.Wrap(err, "querying journal entries")
}

func (svc *Service) Get(ctx context.Context, id string) (Entry, error) {
	e, err := svc.repo.GetEntry(ctx, id)
	return e, pkgerrors.Wrap(err, "getting journal entry")
}

func (svc *Service) Create(ctx context.Context, userID string, ne NewEntry) (Entry, error) {
	ne.Title = core.CleanString(ne.Title)
	if ne.Mood == "" {
		ne.Mood = MoodNeutral
	}
	if err := svc.validate.Struct(ne); err != nil {
		return Entry{}, err
	}
	now := NowFunc().UTC()
	e, err := svc.repo.CreateEntry(ctx, Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     ne.Title,
		Content:   ne.Content,
		Mood:      ne.Mood,
		Tags:      cleanTags(ne.Tags),
		IsLocked:  ne.IsLocked,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return e, pkgerrors.Wrap(err, "creating journal entry")
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEntry) (Entry, error) {
	if err := svc.validate.Struct(ue); err != nil {
		return Entry{}, err
	}
	e, err := svc.repo.GetEntry(ctx, id)
	if err != nil {
		return Entry{}, pkgerrors.Wrap(err, "getting journal entry")
	}
	if ue.Title != nil {
		e.Title = core.CleanString(*ue.Title)
	}
	if ue.Content != nil {
		e.Content = *ue.Content
	}
	if ue.Mood != nil {
		e.Mood = *ue.Mood
	}
	if ue.Tags != nil {
		e.Tags = cleanTags(*ue.Tags)
	}
	if ue.IsLocked != nil {
		e.IsLocked = *ue.IsLocked
	}
	e.UpdatedAt = NowFunc().UTC()
	e, err = svc.repo.UpdateEntry(ctx, e)
	return e, pkgerrors.Wrap(err, "updating journal entry")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(svc.repo.DeleteEntry(ctx, id), "deleting journal entry")
}

func (svc *Service) GetSettings(ctx context.Context, userID string) (Settings, error) {
	s, err := svc.repo.GetSettings(ctx, userID)
	return s, pkgerrors.Wrap(err, "getting journal settings")
}

func (svc *Service) SaveSettings(ctx context.Context, userID string, ss SaveSettings) (Settings, error) {
	if err := svc.validate.Struct(ss); err != nil {
		return Settings{}, err
	}
	s, err := svc.repo.GetSettings(ctx, userID)
	if err != nil {
		return Settings{}, pkgerrors.Wrap(err, "getting journal settings")
	}
	switch {
	case ss.RemovePasscode:
		s.PasscodeHash = nil
	case ss.Passcode != "":
		if err = s.SetPasscode(ss.Passcode); err != nil {
			return Settings{}, err
		}
	}
	if ss.AutoLockAfter != nil {
		s.AutoLockAfter = *ss.AutoLockAfter
	}
	s.UserID = userID
	s.UpdatedAt = NowFunc().UTC()
	if s, err = svc.repo.SaveSettings(ctx, s); err != nil {
		return Settings{}, pkgerrors.Wrap(err, "saving journal settings")
	}
	// open gates were built from the old settings
	svc.Lock(userID)
	return s, nil
}

// Unlock checks passcode against the user's settings. The open gate is kept for session until
// it auto-locks, a wrong passcode closes it.
func (svc *Service) Unlock(ctx context.Context, userID, session, passcode string) (*Gate, error) {
	s, err := svc.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	key := gateKey(userID, session)
	gate := newGate(s)
	if err = gate.Unlock(passcode); err != nil {
		svc.gates.Delete(key)
		return nil, err
	}
	svc.gates.Set(key, gate, gateTTL(s.AutoLockAfter))
	return gate, nil
}

// Gate returns the gate session unlocked, recording activity on it. A session that never
// unlocked, or whose gate auto-locked, gets a locked gate.
func (svc *Service) Gate(ctx context.Context, userID, session string) (*Gate, error) {
	key := gateKey(userID, session)
	if v, ok := svc.gates.Get(key); ok {
		gate := v.(*Gate)
		if gate.Touch() {
			svc.gates.Set(key, gate, gateTTL(gate.AutoLockAfter()))
			return gate, nil
		}
		svc.gates.Delete(key)
	}
	s, err := svc.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newGate(s), nil
}

// Lock closes every gate the user opened.
func (svc *Service) Lock(userID string) {
	prefix := gateKey(userID, "")
	for key := range svc.gates.Items() {
		if strings.HasPrefix(key, prefix) {
			svc.gates.Delete(key)
		}
	}
}
