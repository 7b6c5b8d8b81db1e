// Package memsession keeps sessions in process memory. Sessions are lost on restart.
package memsession

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/trezcool/studybuddy/core/user"
)

type store struct {
	cache *cache.Cache
}

var _ user.SessionStore = (*store)(nil) // interface compliance check

func NewStore(defaultTTL time.Duration) user.SessionStore {
	return &store{cache: cache.New(defaultTTL, 10*time.Minute)}
}

func (s *store) Save(_ context.Context, id, userID string, ttl time.Duration) error {
	s.cache.Set(id, userID, ttl)
	return nil
}

func (s *store) Lookup(_ context.Context, id string) (string, error) {
	if v, ok := s.cache.Get(id); ok {
		return v.(string), nil
	}
	return "", user.ErrSessionNotFound
}

func (s *store) Revoke(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
