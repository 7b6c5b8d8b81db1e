package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/studybuddy/core"
)

// User is an authenticated identity merged with its profile row.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Institution string    `json:"institution"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Identity is what a user authenticates with.
type Identity struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash []byte     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"` // UTC
	LastLogin    *time.Time `json:"last_login" db:"last_login"` // UTC
}

func (i *Identity) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	i.PasswordHash = hash
	return nil
}

func (i *Identity) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(i.PasswordHash, []byte(pwd))
}

// Profile holds the public fields of a user, keyed by the identity's id.
type Profile struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Institution string    `json:"institution" db:"institution"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func merge(ident Identity, prof Profile) User {
	return User{
		ID:          ident.ID,
		Email:       ident.Email,
		Name:        prof.Name,
		Institution: prof.Institution,
		CreatedAt:   ident.CreatedAt,
	}
}

// NewUser contains information needed to sign up.
type NewUser struct {
	Name        string `json:"name" validate:"required,notblank"`
	Email       string `json:"email" validate:"required,email"`
	Institution string `json:"institution"`
	Password    string `json:"password" validate:"required"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Institution = core.CleanString(nu.Institution)
}

// UpdateProfile defines what may be changed on a user's profile.
type UpdateProfile struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Institution *string `json:"institution"`
}

// Credentials are used to sign in.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email, true /* lower */)
}

// Session is an issued access token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
