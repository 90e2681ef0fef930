package db

import (
	"context"

	"github.com/bloghub/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

func (db *Postgres) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (username, password_hash, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, username, password_hash, created_at, updated_at
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, username, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) InsertRefreshToken(ctx context.Context, rec model.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token_id, user_id, issued_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, FALSE)
	`
	_, err := db.Pool.Exec(ctx, query, rec.TokenID, rec.UserID, rec.IssuedAt, rec.ExpiresAt)
	return err
}

func (db *Postgres) GetRefreshToken(ctx context.Context, tokenID string) (*model.RefreshToken, error) {
	query := `
		SELECT token_id, user_id, issued_at, expires_at, revoked
		FROM refresh_tokens
		WHERE token_id = $1
	`
	var rec model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, tokenID).Scan(
		&rec.TokenID,
		&rec.UserID,
		&rec.IssuedAt,
		&rec.ExpiresAt,
		&rec.Revoked,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// RevokeRefreshToken flips revoked on the ledger row. Revoking an
// already-revoked token is a no-op; an unknown token is ErrNoRows.
func (db *Postgres) RevokeRefreshToken(ctx context.Context, tokenID string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token_id = $1
	`
	tag, err := db.Pool.Exec(ctx, query, tokenID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
