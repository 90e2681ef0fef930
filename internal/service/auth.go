package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bloghub/backend/internal/config"
	"github.com/bloghub/backend/internal/db"
	"github.com/bloghub/backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrMisconfigured      = errors.New("auth config invalid")
)

// UserStore is the credential store contract. Username uniqueness is
// enforced by the store itself; a violation surfaces as a unique
// violation error, never as a racy check-then-insert.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
}

// TokenLedger records refresh-token validity. Access tokens are never
// looked up here.
type TokenLedger interface {
	InsertRefreshToken(ctx context.Context, rec model.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenID string) (*model.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenID string) error
}

type AuthService struct {
	users      UserStore
	tokens     TokenLedger
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *zap.Logger
}

type authClaims struct {
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewAuthService(users UserStore, tokens TokenLedger, cfg config.AuthConfig, log *zap.Logger) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.JWTRefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}

	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}, nil
}

// Register creates a user and nothing else: no tokens are issued, the
// caller still has to log in.
func (s *AuthService) Register(ctx context.Context, username, password, passwordConfirm string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if password != passwordConfirm {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown username
// and wrong password collapse into the same opaque failure so the
// response never leaks which field was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.TokenPair, *model.User, error) {
	if username == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", user.ID))
	return pair, user, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token itself is not rotated: one refresh token per session,
// valid until revoked or expired.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	rec, err := s.tokens.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if rec.Revoked {
		return "", ErrTokenRevoked
	}
	if time.Now().After(rec.ExpiresAt) {
		return "", ErrTokenExpired
	}

	user, err := s.users.GetUserByID(ctx, rec.UserID)
	if err != nil {
		return "", err
	}

	return s.generateToken(user, tokenTypeAccess, s.accessTTL, "")
}

// Logout revokes the refresh token. Access tokens already in flight are
// left to expire naturally; revocation does not cascade. Revoking an
// already-revoked token succeeds, a token that was never issued does not.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return ErrInvalidToken
	}

	rec, err := s.tokens.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrInvalidToken
		}
		return err
	}
	if rec.Revoked {
		return nil
	}

	if err := s.tokens.RevokeRefreshToken(ctx, rec.TokenID); err != nil {
		return err
	}

	s.log.Info("refresh token revoked", zap.Int64("user_id", rec.UserID))
	return nil
}

// ParseAccessToken resolves the caller identity from a bearer access
// token. Pure signature and expiry check, no store lookup.
func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims, err := s.parseToken(tokenStr, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.AuthUser{
		ID:       userID,
		Username: claims.Username,
	}, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	access, err := s.generateToken(user, tokenTypeAccess, s.accessTTL, "")
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	now := time.Now()
	refresh, err := s.generateToken(user, tokenTypeRefresh, s.refreshTTL, jti)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.InsertRefreshToken(ctx, model.RefreshToken{
		TokenID:   jti,
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) generateToken(user *model.User, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := authClaims{
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenStr, wantType string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
