// Package redissession keeps sessions in Redis, keyed by token id, expiring with the token.
package redissession

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/studybuddy/core"
	"github.com/trezcool/studybuddy/core/user"
)

const keyPrefix = "studybuddy:session:"

type store struct {
	client redis.Cmdable
}

var _ user.SessionStore = (*store)(nil) // interface compliance check

func NewStore(client redis.Cmdable) user.SessionStore {
	return &store{client: client}
}

// Open connects to the configured Redis server.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: conf.Session.RedisAddr,
		DB:   conf.Session.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, pkgerrors.Wrap(err, "pinging redis")
	}
	return client, nil
}

func (s *store) Save(ctx context.Context, id, userID string, ttl time.Duration) error {
	return pkgerrors.Wrap(s.client.Set(ctx, keyPrefix+id, userID, ttl).Err(), "saving session")
}

func (s *store) Lookup(ctx context.Context, id string) (string, error) {
	userID, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", user.ErrSessionNotFound
	}
	return userID, pkgerrors.Wrap(err, "looking up session")
}

func (s *store) Revoke(ctx context.Context, id string) error {
	return pkgerrors.Wrap(s.client.Del(ctx, keyPrefix+id).Err(), "revoking session")
}
