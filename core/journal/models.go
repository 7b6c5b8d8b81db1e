package journal

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/studybuddy/core"
)

type Mood string

const (
	MoodGreat   Mood = "great"
	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodBad     Mood = "bad"
	MoodAwful   Mood = "awful"
)

var (
	moodTag = "mood"

	passcodeMinLen = 4
)

// InitValidators registers the mood tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterEnum(validate, translator, moodTag,
		string(MoodGreat), string(MoodGood), string(MoodNeutral), string(MoodBad), string(MoodAwful))
}

type Entry struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Title     string          `json:"title" db:"title"`
	Content   string          `json:"content" db:"content"`
	Mood      Mood            `json:"mood" db:"mood"`
	Tags      core.StringList `json:"tags" db:"tags"`
	IsLocked  bool            `json:"is_locked" db:"is_locked"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"` // UTC
}

// NewEntry contains information needed to create a new journal Entry.
type NewEntry struct {
	Title    string   `json:"title" validate:"required,notblank,max=200"`
	Content  string   `json:"content"`
	Mood     Mood     `json:"mood" validate:"omitempty,mood"`
	Tags     []string `json:"tags" validate:"max=20,dive,notblank,max=50"`
	IsLocked bool     `json:"is_locked"`
}

// UpdateEntry is a patch: nil fields are left unchanged.
type UpdateEntry struct {
	Title    *string   `json:"title" validate:"omitempty,notblank,max=200"`
	Content  *string   `json:"content"`
	Mood     *Mood     `json:"mood" validate:"omitempty,mood"`
	Tags     *[]string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=50"`
	IsLocked *bool     `json:"is_locked"`
}

// Settings hold the journal passcode and how long the journal stays unlocked without activity.
// The passcode only gates the journal view: entries are not encrypted.
type Settings struct {
	UserID        string        `json:"user_id" db:"user_id"`
	PasscodeHash  []byte        `json:"-" db:"passcode_hash"`
	AutoLockAfter time.Duration `json:"auto_lock_after" db:"auto_lock_after"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"` // UTC
}

func (s Settings) HasPasscode() bool { return len(s.PasscodeHash) > 0 }

func (s *Settings) SetPasscode(passcode string) error {
	if len([]rune(passcode)) < passcodeMinLen {
		return core.NewValidationError(nil, core.FieldError{Field: "passcode", Error: "passcode must contain at least 4 characters"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasscodeHash = hash
	return nil
}

func (s Settings) CheckPasscode(passcode string) bool {
	if !s.HasPasscode() {
		return true
	}
	return bcrypt.CompareHashAndPassword(s.PasscodeHash, []byte(passcode)) == nil
}

// SaveSettings updates the journal settings. An empty Passcode keeps the current one;
// RemovePasscode clears it.
type SaveSettings struct {
	Passcode       string         `json:"passcode"`
	RemovePasscode bool           `json:"remove_passcode"`
	AutoLockAfter  *time.Duration `json:"auto_lock_after" validate:"omitempty,min=0"`
}

// SettingsView is what clients see of the settings.
type SettingsView struct {
	HasPasscode   bool          `json:"has_passcode"`
	AutoLockAfter time.Duration `json:"auto_lock_after"`
}

func (s Settings) View() SettingsView {
	return SettingsView{HasPasscode: s.HasPasscode(), AutoLockAfter: s.AutoLockAfter}
}
