package voicescript

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/studybuddy/core"
)

var (
	// errors
	ErrNotFound = errors.New("voice script not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryVoiceScripts returns the user's scripts, newest first.
		QueryVoiceScripts(ctx context.Context, userID string) ([]VoiceScript, error)
		GetVoiceScript(ctx context.Context, id string) (VoiceScript, error)
		CreateVoiceScript(ctx context.Context, vs VoiceScript) (VoiceScript, error)
		UpdateVoiceScript(ctx context.Context, vs VoiceScript) (VoiceScript, error)
		DeleteVoiceScript(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context, userID string) ([]VoiceScript, error) {
	scripts, err := svc.repo.QueryVoiceScripts(ctx, userID)
	return scripts, pkgerrors.Wrap(err, "querying voice scripts")
}

func (svc *Service) Get(ctx context.Context, id string) (VoiceScript, error) {
	vs, err := svc.repo.GetVoiceScript(ctx, id)
	return vs, pkgerrors.Wrap(err, "getting voice script")
}

func (svc *Service) Create(ctx context.Context, userID string, nv NewVoiceScript) (VoiceScript, error) {
	nv.Clean()
	if err := svc.validate.Struct(nv); err != nil {
		return VoiceScript{}, err
	}
	now := NowFunc().UTC()
	vs, err := svc.repo.CreateVoiceScript(ctx, VoiceScript{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        nv.Title,
		Content:      nv.Content,
		AudioURL:     nv.AudioURL,
		RecordingURL: nv.RecordingURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return vs, pkgerrors.Wrap(err, "creating voice script")
}

func (svc *Service) Update(ctx context.Context, id string, uv UpdateVoiceScript) (VoiceScript, error) {
	if err := svc.validate.Struct(uv); err != nil {
		return VoiceScript{}, err
	}
	vs, err := svc.repo.GetVoiceScript(ctx, id)
	if err != nil {
		return VoiceScript{}, pkgerrors.Wrap(err, "getting voice script")
	}
	if uv.Title != nil {
		vs.Title = core.CleanString(*uv.Title)
	}
	if uv.Content != nil {
		vs.Content = *uv.Content
	}
	if uv.AudioURL != nil {
		vs.AudioURL = core.CleanStringPtr(uv.AudioURL)
	}
	if uv.RecordingURL != nil {
		vs.RecordingURL = core.CleanStringPtr(uv.RecordingURL)
	}
	vs.UpdatedAt = NowFunc().UTC()
	vs, err = svc.repo.UpdateVoiceScript(ctx, vs)
	return vs, pkgerrors.Wrap(err, "updating voice script")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(svc.repo.DeleteVoiceScript(ctx, id), "deleting voice script")
}
