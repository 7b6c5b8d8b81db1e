package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/journal"
)

type journalRepository struct {
	exec core.DBExecutor
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(exec core.DBExecutor) journal.Repository {
	return &journalRepository{exec: exec}
}

const (
	entryColumns    = "id, user_id, title, content, mood, tags, is_locked, created_at, updated_at"
	settingsColumns = "user_id, passcode_hash, auto_lock_after, updated_at"
)

func (repo *journalRepository) QueryEntries(ctx context.Context, userID string) ([]journal.Entry, error) {
	entries := make([]journal.Entry, 0)
	err := repo.exec.SelectContext(ctx, &entries,
		"SELECT "+entryColumns+" FROM journal_entries WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return entries, errors.Wrap(err, "selecting journal entries")
}

func (repo *journalRepository) GetEntry(ctx context.Context, id string) (journal.Entry, error) {
	var e journal.Entry
	err := repo.exec.GetContext(ctx, &e, "SELECT "+entryColumns+" FROM journal_entries WHERE id = $1", id)
	return e, notFound(err, journal.ErrNotFound)
}

func (repo *journalRepository) CreateEntry(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES (:id, :user_id, :title, :content, :mood, :tags, :is_locked, :created_at, :updated_at)`, e)
	if err != nil {
		return journal.Entry{}, errors.Wrap(err, "inserting journal entry")
	}
	return e, nil
}

func (repo *journalRepository) UpdateEntry(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	var updated journal.Entry
	err := repo.exec.GetContext(ctx, &updated, `
		UPDATE journal_entries
		SET title = $1, content = $2, mood = $3, tags = $4, is_locked = $5, updated_at = $6
		WHERE id = $7
		RETURNING `+entryColumns, e.Title, e.Content, e.Mood, e.Tags, e.IsLocked, e.UpdatedAt, e.ID)
	return updated, notFound(err, journal.ErrNotFound)
}

func (repo *journalRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = $1", id)
	return affected(res, err, journal.ErrNotFound)
}

func (repo *journalRepository) GetSettings(ctx context.Context, userID string) (journal.Settings, error) {
	var s journal.Settings
	err := repo.exec.GetContext(ctx, &s, "SELECT "+settingsColumns+" FROM journal_settings WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Settings{UserID: userID, AutoLockAfter: journal.DefaultAutoLockAfter}, nil
	}
	return s, errors.Wrap(err, "selecting journal settings")
}

func (repo *journalRepository) SaveSettings(ctx context.Context, s journal.Settings) (journal.Settings, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO journal_settings (`+settingsColumns+`)
		VALUES (:user_id, :passcode_hash, :auto_lock_after, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET passcode_hash = EXCLUDED.passcode_hash, auto_lock_after = EXCLUDED.auto_lock_after,
			updated_at = EXCLUDED.updated_at`, s)
	return s, errors.Wrap(err, "saving journal settings")
}
