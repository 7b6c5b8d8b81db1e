package dummydb

import (
	"context"

	"github.com/trezcool/studybuddy/core/journal"
)

type journalRepository struct {
	entries  *table[journal.Entry]
	settings *table[journal.Settings]
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(db *DB) journal.Repository {
	return &journalRepository{entries: db.entries, settings: db.settings}
}

func (repo *journalRepository) QueryEntries(_ context.Context, userID string) ([]journal.Entry, error) {
	repo.entries.RLock()
	defer repo.entries.RUnlock()
	return newest(repo.entries.filter(func(e journal.Entry) bool { return e.UserID == userID })), nil
}

func (repo *journalRepository) GetEntry(_ context.Context, id string) (journal.Entry, error) {
	repo.entries.RLock()
	defer repo.entries.RUnlock()

	if idx := repo.entries.index(func(e journal.Entry) bool { return e.ID == id }); idx >= 0 {
		return repo.entries.rows[idx], nil
	}
	return journal.Entry{}, journal.ErrNotFound
}

func (repo *journalRepository) CreateEntry(_ context.Context, e journal.Entry) (journal.Entry, error) {
	repo.entries.Lock()
	defer repo.entries.Unlock()

	repo.entries.rows = append(repo.entries.rows, e)
	return e, nil
}

func (repo *journalRepository) UpdateEntry(_ context.Context, e journal.Entry) (journal.Entry, error) {
	repo.entries.Lock()
	defer repo.entries.Unlock()

	idx := repo.entries.index(func(row journal.Entry) bool { return row.ID == e.ID })
	if idx < 0 {
		return journal.Entry{}, journal.ErrNotFound
	}
	e.UserID, e.CreatedAt = repo.entries.rows[idx].UserID, repo.entries.rows[idx].CreatedAt
	repo.entries.rows[idx] = e
	return e, nil
}

func (repo *journalRepository) DeleteEntry(_ context.Context, id string) error {
	repo.entries.Lock()
	defer repo.entries.Unlock()

	if removed := repo.entries.remove(func(e journal.Entry) bool { return e.ID == id }); len(removed) == 0 {
		return journal.ErrNotFound
	}
	return nil
}

func (repo *journalRepository) GetSettings(_ context.Context, userID string) (journal.Settings, error) {
	repo.settings.RLock()
	defer repo.settings.RUnlock()

	if idx := repo.settings.index(func(s journal.Settings) bool { return s.UserID == userID }); idx >= 0 {
		return repo.settings.rows[idx], nil
	}
	return journal.Settings{UserID: userID, AutoLockAfter: journal.DefaultAutoLockAfter}, nil
}

func (repo *journalRepository) SaveSettings(_ context.Context, s journal.Settings) (journal.Settings, error) {
	repo.settings.Lock()
	defer repo.settings.Unlock()

	if idx := repo.settings.index(func(row journal.Settings) bool { return row.UserID == s.UserID }); idx >= 0 {
		repo.settings.rows[idx] = s
	} else {
		repo.settings.rows = append(repo.settings.rows, s)
	}
	return s, nil
}
