package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/user"
)

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) user.Repository {
	return &userRepository{exec: exec}
}

const identityColumns = "id, email, password_hash, created_at, last_login"

func (repo *userRepository) CreateIdentity(ctx context.Context, ident user.Identity) (user.Identity, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO identities (`+identityColumns+`)
		VALUES (:id, :email, :password_hash, :created_at, :last_login)`, ident)
	if isUniqueViolation(err) {
		return user.Identity{}, user.ErrEmailExists
	}
	if err != nil {
		return user.Identity{}, errors.Wrap(err, "inserting identity")
	}
	return ident, nil
}

func (repo *userRepository) getIdentity(ctx context.Context, where string, arg interface{}) (user.Identity, error) {
	var ident user.Identity
	err := repo.exec.GetContext(ctx, &ident, "SELECT "+identityColumns+" FROM identities WHERE "+where+" = $1", arg)
	return ident, notFound(err, user.ErrNotFound)
}

func (repo *userRepository) GetIdentityByID(ctx context.Context, id string) (user.Identity, error) {
	return repo.getIdentity(ctx, "id", id)
}

func (repo *userRepository) GetIdentityByEmail(ctx context.Context, email string) (user.Identity, error) {
	return repo.getIdentity(ctx, "email", email)
}

func (repo *userRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	res, err := repo.exec.ExecContext(ctx, "UPDATE identities SET password_hash = $1 WHERE id = $2", hash, id)
	return affected(res, err, user.ErrNotFound)
}

func (repo *userRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := repo.exec.ExecContext(ctx, "UPDATE identities SET last_login = $1 WHERE id = $2", at.UTC(), id)
	return affected(res, err, user.ErrNotFound)
}

func (repo *userRepository) UpsertProfile(ctx context.Context, prof user.Profile) (user.Profile, error) {
	_, err := repo.exec.NamedExecContext(ctx, `
		INSERT INTO profiles (user_id, name, institution, updated_at)
		VALUES (:user_id, :name, :institution, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, institution = EXCLUDED.institution, updated_at = EXCLUDED.updated_at`, prof)
	if isForeignKeyViolation(err) {
		return user.Profile{}, user.ErrNotFound
	}
	return prof, errors.Wrap(err, "upserting profile")
}

func (repo *userRepository) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	var prof user.Profile
	err := repo.exec.GetContext(ctx, &prof, "SELECT user_id, name, institution, updated_at FROM profiles WHERE user_id = $1", userID)
	return prof, notFound(err, user.ErrProfileNotFound)
}
