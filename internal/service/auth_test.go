package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bloghub/backend/internal/config"
	"github.com/bloghub/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]*model.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, username, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	m.nextID++
	user := &model.User{
		ID:           m.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.byName[username] = user
	return user, nil
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byName[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memUsers) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byName {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memLedger struct {
	mu   sync.Mutex
	recs map[string]*model.RefreshToken
}

func newMemLedger() *memLedger {
	return &memLedger{recs: map[string]*model.RefreshToken{}}
}

func (m *memLedger) InsertRefreshToken(_ context.Context, rec model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.TokenID] = &rec
	return nil
}

func (m *memLedger) GetRefreshToken(_ context.Context, tokenID string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[tokenID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *rec
	return &copied, nil
}

func (m *memLedger) RevokeRefreshToken(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[tokenID]
	if !ok {
		return pgx.ErrNoRows
	}
	rec.Revoked = true
	return nil
}

func newTestAuthService(t *testing.T, accessTTL string) *AuthService {
	t.Helper()
	svc, err := NewAuthService(newMemUsers(), newMemLedger(), config.AuthConfig{
		JWTSecret:     "test-secret",
		JWTAccessTTL:  accessTTL,
		JWTRefreshTTL: "24h",
	}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(newMemUsers(), newMemLedger(), config.AuthConfig{
		JWTAccessTTL:  "15m",
		JWTRefreshTTL: "24h",
	}, zap.NewNop())
	require.ErrorIs(t, err, ErrMisconfigured)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw1", "pw1")
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, "alice", "", "")
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, "alice", "pw1", "pw2")
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	pair, loggedIn, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.Equal(t, user.ID, loggedIn.ID)

	caller, err := svc.ParseAccessToken(pair.Access)
	require.NoError(t, err)
	require.Equal(t, user.ID, caller.ID)
	require.Equal(t, "alice", caller.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2", "pw2")
	require.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "alice", "pw1", "pw1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrUserExists)
	}
	require.Equal(t, 1, succeeded)
}

func TestLoginOpaqueFailure(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alice", "nope")
	_, _, unknownUser := svc.Login(ctx, "bob", "pw1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
}

func TestRefreshDoesNotRotate(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	access1, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access1)

	// Same refresh token keeps working; sessions hold one refresh token.
	access2, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access2)
}

func TestRevocationDoesNotCascade(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh))

	// The refresh token is dead.
	_, err = svc.Refresh(ctx, pair.Refresh)
	require.ErrorIs(t, err, ErrTokenRevoked)

	// The access token stays valid until its own expiry.
	caller, err := svc.ParseAccessToken(pair.Access)
	require.NoError(t, err)
	require.Equal(t, "alice", caller.Username)
}

func TestLogoutIdempotent(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh))
	require.NoError(t, svc.Logout(ctx, pair.Refresh))
}

func TestLogoutUnknownToken(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	require.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrInvalidToken)

	// A well-signed refresh token that was never recorded in the ledger
	// is rejected too.
	other := newTestAuthService(t, "15m")
	_, err := other.Register(ctx, "mallory", "pw1", "pw1")
	require.NoError(t, err)
	pair, _, err := other.Login(ctx, "mallory", "pw1")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Logout(ctx, pair.Refresh), ErrInvalidToken)
}

func TestAccessTokenExpiry(t *testing.T) {
	svc := newTestAuthService(t, "1ms")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.ParseAccessToken(pair.Access)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTypeConfusionRejected(t *testing.T) {
	svc := newTestAuthService(t, "15m")
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	// A refresh token is not an access token and vice versa.
	_, err = svc.ParseAccessToken(pair.Refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, pair.Access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenMalformed(t *testing.T) {
	svc := newTestAuthService(t, "15m")

	_, err := svc.ParseAccessToken("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
