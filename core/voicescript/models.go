package voicescript

import (
	"time"

	"github.com/trezcool/studybuddy/core"
)

type VoiceScript struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	AudioURL     *string   `json:"audio_url" db:"audio_url"`
	RecordingURL *string   `json:"recording_url" db:"recording_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewVoiceScript contains information needed to save a generated voiceover script.
type NewVoiceScript struct {
	Title        string  `json:"title" validate:"required,notblank,max=200"`
	Content      string  `json:"content" validate:"required,notblank"`
	AudioURL     *string `json:"audio_url" validate:"omitempty,url"`
	RecordingURL *string `json:"recording_url" validate:"omitempty,url"`
}

func (nv *NewVoiceScript) Clean() {
	nv.Title = core.CleanString(nv.Title)
	nv.AudioURL = core.CleanStringPtr(nv.AudioURL)
	nv.RecordingURL = core.CleanStringPtr(nv.RecordingURL)
}

// UpdateVoiceScript is a patch: nil fields are left unchanged.
type UpdateVoiceScript struct {
	Title        *string `json:"title" validate:"omitempty,notblank,max=200"`
	Content      *string `json:"content" validate:"omitempty,notblank"`
	AudioURL     *string `json:"audio_url" validate:"omitempty,url"`
	RecordingURL *string `json:"recording_url" validate:"omitempty,url"`
}
