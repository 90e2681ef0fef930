package db

import (
	"context"

	"github.com/bloghub/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

func (db *Postgres) InsertComment(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, post_id, author_id, content, created_at
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, postID, authorID, content).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY id
	`
	rows, err := db.Pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (db *Postgres) UpdateComment(ctx context.Context, commentID int64, content *string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = COALESCE($2, content)
		WHERE id = $1
	`
	tag, err := db.Pool.Exec(ctx, query, commentID, content)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return db.GetComment(ctx, commentID)
}

func (db *Postgres) DeleteComment(ctx context.Context, commentID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
