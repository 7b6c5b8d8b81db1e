package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/voicescript"
)

type voiceScriptRepository struct {
	exec core.DBExecutor
}

var _ voicescript.Repository = (*voiceScriptRepository)(nil) // interface compliance check

func NewVoiceScriptRepository(exec core.DBExecutor) voicescript.Repository {
	return &voiceScriptRepository{exec: exec}
}

const voiceScriptColumns = "id, user_id, title, content, audio_url, recording_url, created_at, updated_at"

func (repo *voiceScriptRepository) QueryVoiceScripts(ctx context.Context, userID string) ([]voicescript.VoiceScript, error) {
	scripts := make([]voicescript.VoiceScript, 0)
	err := repo.exec.SelectContext(ctx, &scripts,
		"SELECT "+voiceScriptColumns+" FROM voice_scripts WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return scripts, errors.Wrap(err, "selecting voice scripts")
}

func (repo *voiceScriptRepository) GetVoiceScript(ctx context.Context, id string) (voicescript.VoiceScript, error) {
	var vs voicescript.VoiceScript
	err := repo.exec.GetContext(ctx, &vs, "SELECT "+voiceScriptColumns+" FROM voice_scripts WHERE id = $1", id)
	return vs, notFound(err, voicescript.ErrNotFound)
}

func (repo *voiceScriptRepository) CreateVoiceScript(ctx context.Context, vs voicescript.VoiceScript) (voicescript.VoiceScript, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO voice_scripts (`+voiceScriptColumns+`)
		VALUES (:id, :user_id, :title, :content, :audio_url, :recording_url, :created_at, :updated_at)`, vs)
	if err != nil {
		return voicescript.VoiceScript{}, errors.Wrap(err, "inserting voice script")
	}
	return vs, nil
}

func (repo *voiceScriptRepository) UpdateVoiceScript(ctx context.Context, vs voicescript.VoiceScript) (voicescript.VoiceScript, error) {
	var updated voicescript.VoiceScript
	err := repo.exec.GetContext(ctx, &updated, `
		UPDATE voice_scripts SET title = $1, content = $2, audio_url = $3, recording_url = $4, updated_at = $5
		WHERE id = $6
		RETURNING `+voiceScriptColumns, vs.Title, vs.Content, vs.AudioURL, vs.RecordingURL, vs.UpdatedAt, vs.ID)
	return updated, notFound(err, voicescript.ErrNotFound)
}

func (repo *voiceScriptRepository) DeleteVoiceScript(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, "DELETE FROM voice_scripts WHERE id = $1", id)
	return affected(res, err, voicescript.ErrNotFound)
}
