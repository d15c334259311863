package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/student-teacher-portal/internal/config"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
)

func TestOpenMemory(t *testing.T) {
	b, err := Open(context.Background(), &config.Config{StoreDriver: config.DriverMemory})
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.Store.(*docstore.MemoryStore)
	assert.True(t, ok)
	assert.NotNil(t, b.Credentials)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "sqlite"})
	assert.ErrorContains(t, err, "sqlite")
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), &config.Config{RedisURL: "not a url"})
	assert.Error(t, err)
}

func TestRedisAccountsSurviveRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		StoreDriver:    config.DriverRedis,
		RedisURL:       "redis://" + mr.Addr(),
		StoreNamespace: "portal",
	}
	issuer := identity.NewJWT("secret")
	ctx := context.Background()

	first, err := Open(ctx, cfg)
	require.NoError(t, err)
	_, err = identity.NewLocalAccounts(issuer, first.Credentials).SignUp(ctx, "alice@example.com", "2001-02-03")
	require.NoError(t, err)
	first.Close()

	second, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()
	accounts := identity.NewLocalAccounts(issuer, second.Credentials)

	token, err := accounts.SignIn(ctx, "alice@example.com", "2001-02-03")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = accounts.SignIn(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = accounts.SignUp(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, identity.ErrEmailInUse)
}
