package service

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/microshop/pkg/db"
	"github.com/Skotchmaster/microshop/pkg/tokens"
	"github.com/Skotchmaster/microshop/services/auth/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func newTestAuthService(t *testing.T) (*AuthService, *recordingPublisher) {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	pub := &recordingPublisher{}
	return &AuthService{
		Repo:      &repo.GormRepo{DB: gdb},
		JWTSecret: testSecret,
		TokenTTL:  15 * time.Minute,
		Events:    pub,
	}, pub
}

func TestAuthService_Register(t *testing.T) {
	svc, pub := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "Secret123", u.PasswordHash)
	assert.Equal(t, []string{"alice"}, pub.keys)

	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User already exists", Message(err))

	_, err = svc.Register(ctx, "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "carol", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ghost", "Secret123")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", Message(err))

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Wrong password", Message(err))

	token, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, 0, claims.Version)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthService_Validate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	for _, header := range []string{token, "Bearer " + token} {
		u, err := svc.Validate(ctx, header)
		require.NoError(t, err, header)
		assert.Equal(t, "alice", u.Username)
	}

	_, err = svc.Validate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Validate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	foreign, _, err := tokens.NewAccessToken("alice", 0, time.Minute, []byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Validate(ctx, foreign)
	assert.ErrorIs(t, err, ErrUnauthorized)

	orphan, _, err := tokens.NewAccessToken("ghost", 0, time.Minute, testSecret)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, orphan)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User doesn't exist", Message(err))
}

func TestAuthService_LogoutRevokesIssuedTokens(t *testing.T) {
	svc, pub := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	assert.Equal(t, []string{"alice", "alice"}, pub.keys)

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(ctx, token), ErrUnauthorized)

	fresh, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	_, err = svc.Validate(ctx, fresh)
	assert.NoError(t, err)
}

func TestAuthService_Promote(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "bob", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Promote(ctx, "bob"))
	token, err := svc.Login(ctx, "bob", "Secret123")
	require.NoError(t, err)
	u, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	assert.ErrorIs(t, svc.Promote(ctx, "ghost"), ErrNotFound)
}
