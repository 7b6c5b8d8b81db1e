package dummydb

import (
	"context"
	"time"

	"github.com/trezcool/studybuddy/core/user"
)

type userRepository struct {
	identities *table[user.Identity]
	profiles   *table[user.Profile]
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{identities: db.identities, profiles: db.profiles}
}

func (repo *userRepository) CreateIdentity(_ context.Context, ident user.Identity) (user.Identity, error) {
	repo.identities.Lock()
	defer repo.identities.Unlock()

	if repo.identities.index(func(i user.Identity) bool { return i.Email == ident.Email }) >= 0 {
		return user.Identity{}, user.ErrEmailExists
	}
	repo.identities.rows = append(repo.identities.rows, ident)
	return ident, nil
}

func (repo *userRepository) getIdentity(match func(user.Identity) bool) (user.Identity, error) {
	repo.identities.RLock()
	defer repo.identities.RUnlock()

	if idx := repo.identities.index(match); idx >= 0 {
		return repo.identities.rows[idx], nil
	}
	return user.Identity{}, user.ErrNotFound
}

func (repo *userRepository) GetIdentityByID(_ context.Context, id string) (user.Identity, error) {
	return repo.getIdentity(func(i user.Identity) bool { return i.ID == id })
}

func (repo *userRepository) GetIdentityByEmail(_ context.Context, email string) (user.Identity, error) {
	return repo.getIdentity(func(i user.Identity) bool { return i.Email == email })
}

func (repo *userRepository) updateIdentity(id string, update func(*user.Identity)) error {
	repo.identities.Lock()
	defer repo.identities.Unlock()

	idx := repo.identities.index(func(i user.Identity) bool { return i.ID == id })
	if idx < 0 {
		return user.ErrNotFound
	}
	update(&repo.identities.rows[idx])
	return nil
}

func (repo *userRepository) UpdatePassword(_ context.Context, id string, hash []byte) error {
	return repo.updateIdentity(id, func(i *user.Identity) { i.PasswordHash = hash })
}

func (repo *userRepository) SetLastLogin(_ context.Context, id string, at time.Time) error {
	return repo.updateIdentity(id, func(i *user.Identity) { i.LastLogin = &at })
}

func (repo *userRepository) UpsertProfile(_ context.Context, prof user.Profile) (user.Profile, error) {
	repo.profiles.Lock()
	defer repo.profiles.Unlock()

	if idx := repo.profiles.index(func(p user.Profile) bool { return p.UserID == prof.UserID }); idx >= 0 {
		repo.profiles.rows[idx] = prof
	} else {
		repo.profiles.rows = append(repo.profiles.rows, prof)
	}
	return prof, nil
}

func (repo *userRepository) GetProfile(_ context.Context, userID string) (user.Profile, error) {
	repo.profiles.RLock()
	defer repo.profiles.RUnlock()

	if idx := repo.profiles.index(func(p user.Profile) bool { return p.UserID == userID }); idx >= 0 {
		return repo.profiles.rows[idx], nil
	}
	return user.Profile{}, user.ErrProfileNotFound
}
