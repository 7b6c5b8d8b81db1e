package memsession

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studybuddy/core/user"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	_, err := s.Lookup(ctx, "jti")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, "jti", "u1", time.Hour))
	userID, err := s.Lookup(ctx, "jti")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	require.NoError(t, s.Revoke(ctx, "jti"))
	_, err = s.Lookup(ctx, "jti")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, "short", "u1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, err = s.Lookup(ctx, "short")
	assert.ErrorIs(t, err, user.ErrSessionNotFound)
}
