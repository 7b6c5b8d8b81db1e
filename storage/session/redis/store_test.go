package redissession

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core/user"
)

// fakeRedis implements the commands the store uses over a map.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := f.data[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	s := NewStore(fake)

	_, err := s.Lookup(ctx, "jti")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, "jti", "u1", time.Hour))
	assert.Equal(t, time.Hour, fake.ttls[keyPrefix+"jti"])

	userID, err := s.Lookup(ctx, "jti")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	require.NoError(t, s.Revoke(ctx, "jti"))
	_, err = s.Lookup(ctx, "jti")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)
}
