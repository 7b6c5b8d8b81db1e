package dummydb

import (
	"context"

	"github.com/trezcool/studybuddy/core/voicescript"
)

type voiceScriptRepository struct {
	db *table[voicescript.VoiceScript]
}

var _ voicescript.Repository = (*voiceScriptRepository)(nil) // interface compliance check

func NewVoiceScriptRepository(db *DB) voicescript.Repository {
	return &voiceScriptRepository{db: db.voiceScript}
}

func (repo *voiceScriptRepository) QueryVoiceScripts(_ context.Context, userID string) ([]voicescript.VoiceScript, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return newest(repo.db.filter(func(vs voicescript.VoiceScript) bool { return vs.UserID == userID })), nil
}

func (repo *voiceScriptRepository) GetVoiceScript(_ context.Context, id string) (voicescript.VoiceScript, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if idx := repo.db.index(func(vs voicescript.VoiceScript) bool { return vs.ID == id }); idx >= 0 {
		return repo.db.rows[idx], nil
	}
	return voicescript.VoiceScript{}, voicescript.ErrNotFound
}

func (repo *voiceScriptRepository) CreateVoiceScript(_ context.Context, vs voicescript.VoiceScript) (voicescript.VoiceScript, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, vs)
	return vs, nil
}

func (repo *voiceScriptRepository) UpdateVoiceScript(_ context.Context, vs voicescript.VoiceScript) (voicescript.VoiceScript, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	idx := repo.db.index(func(row voicescript.VoiceScript) bool { return row.ID == vs.ID })
	if idx < 0 {
		return voicescript.VoiceScript{}, voicescript.ErrNotFound
	}
	vs.UserID, vs.CreatedAt = repo.db.rows[idx].UserID, repo.db.rows[idx].CreatedAt
	repo.db.rows[idx] = vs
	return vs, nil
}

func (repo *voiceScriptRepository) DeleteVoiceScript(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if removed := repo.db.remove(func(vs voicescript.VoiceScript) bool { return vs.ID == id }); len(removed) == 0 {
		return voicescript.ErrNotFound
	}
	return nil
}
