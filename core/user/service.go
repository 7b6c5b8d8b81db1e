package user

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrSessionNotFound    = errors.New("session not found")
)

type (
	Repository interface {
		// CreateIdentity returns ErrEmailExists when the email is taken.
		CreateIdentity(ctx context.Context, ident Identity) (Identity, error)
		GetIdentityByID(ctx context.Context, id string) (Identity, error)
		GetIdentityByEmail(ctx context.Context, email string) (Identity, error)
		UpdatePassword(ctx context.Context, id string, hash []byte) error
		SetLastLogin(ctx context.Context, id string, at time.Time) error
		UpsertProfile(ctx context.Context, prof Profile) (Profile, error)
		// GetProfile returns ErrProfileNotFound when the identity has no profile row.
		GetProfile(ctx context.Context, userID string) (Profile, error)
	}

	// SessionStore keeps track of issued sessions so they can be revoked before they expire.
	SessionStore interface {
		Save(ctx context.Context, id, userID string, ttl time.Duration) error
		// Lookup returns ErrSessionNotFound for unknown, expired or revoked sessions.
		Lookup(ctx context.Context, id string) (userID string, err error)
		Revoke(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		sessions SessionStore
		mailSvc  core.EmailService
		validate *validator.Validate
		secret   []byte
		issuer   string
		ttl      time.Duration
	}
)

func NewService(
	repo Repository,
	sessions SessionStore,
	mailSvc core.EmailService,
	validate *validator.Validate,
	conf *core.Config,
) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		mailSvc:  mailSvc,
		validate: validate,
		secret:   []byte(conf.SecretKey),
		issuer:   conf.AppName,
		ttl:      conf.Server.JWTExpirationDelta,
	}
}

// SignUp creates the identity, then its profile.
// A profile failure is reported even though the identity was created: callers must not
// assume that an identity implies a profile.
func (svc *Service) SignUp(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}

	ident := Identity{
		ID:        uuid.NewString(),
		Email:     nu.Email,
		CreatedAt: NowFunc().UTC(),
	}
	if err := ident.SetPassword(nu.Password); err != nil {
		return User{}, pkgerrors.Wrap(err, "hashing password")
	}
	ident, err := svc.repo.CreateIdentity(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, pkgerrors.Wrap(err, "creating identity")
	}

	prof, err := svc.repo.UpsertProfile(ctx, Profile{
		UserID:      ident.ID,
		Name:        nu.Name,
		Institution: nu.Institution,
		UpdatedAt:   ident.CreatedAt,
	})
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "creating profile")
	}

	usr := merge(ident, prof)
	svc.sendWelcomeMail(usr)
	return usr, nil
}

// SignIn checks the credentials and issues a session.
// A profile read failure fails the sign-in even when the credentials were valid.
func (svc *Service) SignIn(ctx context.Context, cred Credentials) (Session, error) {
	cred.Clean()
	if err := svc.validate.Struct(cred); err != nil {
		return Session{}, err
	}

	ident, err := svc.repo.GetIdentityByEmail(ctx, cred.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, core.NewValidationError(ErrInvalidCredentials)
		}
		return Session{}, pkgerrors.Wrap(err, "finding identity by email")
	}
	if err = ident.CheckPassword(cred.Password); err != nil {
		return Session{}, core.NewValidationError(ErrInvalidCredentials)
	}

	prof, err := svc.repo.GetProfile(ctx, ident.ID)
	if err != nil {
		return Session{}, pkgerrors.Wrap(err, "reading profile")
	}
	usr := merge(ident, prof)

	sess, err := svc.issue(ctx, usr)
	if err != nil {
		return Session{}, err
	}
	if err = svc.repo.SetLastLogin(ctx, ident.ID, NowFunc().UTC()); err != nil {
		return Session{}, pkgerrors.Wrap(err, "setting last login")
	}
	return sess, nil
}

func (svc *Service) issue(ctx context.Context, usr User) (Session, error) {
	claims := newClaims(usr, svc.issuer, svc.ttl)
	token, err := signToken(claims, svc.secret)
	if err != nil {
		return Session{}, err
	}
	if err = svc.sessions.Save(ctx, claims.ID, usr.ID, svc.ttl); err != nil {
		return Session{}, pkgerrors.Wrap(err, "saving session")
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: usr}, nil
}

// Authenticate returns the id of the user owning the (valid, unrevoked) session token.
func (svc *Service) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := parseToken(token, svc.secret, svc.issuer)
	if err != nil {
		return "", err
	}
	userID, err := svc.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", ErrInvalidToken
		}
		return "", pkgerrors.Wrap(err, "looking up session")
	}
	if userID != claims.Subject {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// CurrentUser returns the user owning token, or nil when there is no valid session.
// Having no session is not an error.
func (svc *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := svc.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}
	usr, err := svc.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usr, nil
}

// SignOut revokes the session behind token. Signing out of an invalid session is a no-op.
func (svc *Service) SignOut(ctx context.Context, token string) error {
	claims, err := parseToken(token, svc.secret, svc.issuer)
	if err != nil {
		return nil
	}
	return pkgerrors.Wrap(svc.sessions.Revoke(ctx, claims.ID), "revoking session")
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	ident, err := svc.repo.GetIdentityByID(ctx, id)
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "finding identity by ID")
	}
	prof, err := svc.repo.GetProfile(ctx, ident.ID)
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "reading profile")
	}
	return merge(ident, prof), nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	ident, err := svc.repo.GetIdentityByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "finding identity by email")
	}
	return svc.GetByID(ctx, ident.ID)
}

func (svc *Service) UpdateProfile(ctx context.Context, userID string, up UpdateProfile) (User, error) {
	if err := svc.validate.Struct(up); err != nil {
		return User{}, err
	}
	usr, err := svc.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	prof := Profile{UserID: userID, Name: usr.Name, Institution: usr.Institution, UpdatedAt: NowFunc().UTC()}
	if up.Name != nil {
		prof.Name = core.CleanString(*up.Name)
	}
	if up.Institution != nil {
		prof.Institution = core.CleanString(*up.Institution)
	}
	if _, err = svc.repo.UpsertProfile(ctx, prof); err != nil {
		return User{}, pkgerrors.Wrap(err, "updating profile")
	}
	usr.Name, usr.Institution = prof.Name, prof.Institution
	return usr, nil
}

// ResetPassword sets a new password without the sign-up policy checks (admin use).
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	ident, err := svc.repo.GetIdentityByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return pkgerrors.Wrap(err, "finding identity by email")
	}
	if err = ident.SetPassword(pwd); err != nil {
		return pkgerrors.Wrap(err, "hashing password")
	}
	return pkgerrors.Wrap(svc.repo.UpdatePassword(ctx, ident.ID, ident.PasswordHash), "updating password")
}

func (svc *Service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome!",
		TemplateName: "welcome",
		TemplateData: usr,
	})
}
