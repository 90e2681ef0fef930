package db

import (
	"context"

	"github.com/bloghub/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

const postColumns = `p.id, p.title, p.content, p.author_id, u.username, p.created_at, p.updated_at`

func (db *Postgres) InsertPost(ctx context.Context, authorID int64, title, content string) (*model.BlogPost, error) {
	query := `
		INSERT INTO posts (title, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`
	var id int64
	if err := db.Pool.QueryRow(ctx, query, title, content, authorID).Scan(&id); err != nil {
		return nil, err
	}
	return db.GetPost(ctx, id)
}

func (db *Postgres) GetPost(ctx context.Context, postID int64) (*model.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	var post model.BlogPost
	err := db.Pool.QueryRow(ctx, query, postID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&post.Author,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		ORDER BY p.id
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// FilterPosts applies the typed filter parameters: nil means "not
// filtered", both set means AND. The date filter compares calendar
// dates, not timestamps.
func (db *Postgres) FilterPosts(ctx context.Context, f model.PostFilter) ([]model.BlogPost, error) {
	order := "p.id"
	switch f.Ordering {
	case "created_at":
		order = "p.created_at"
	case "-created_at":
		order = "p.created_at DESC"
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE ($1::BIGINT IS NULL OR p.author_id = $1)
		  AND ($2::DATE IS NULL OR p.created_at::DATE = $2::DATE)
		ORDER BY ` + order

	rows, err := db.Pool.Query(ctx, query, f.AuthorID, f.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (db *Postgres) UpdatePost(ctx context.Context, postID int64, title, content *string) (*model.BlogPost, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := db.Pool.Exec(ctx, query, postID, title, content)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return db.GetPost(ctx, postID)
}

func (db *Postgres) DeletePost(ctx context.Context, postID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) PostExists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	return exists, err
}

func scanPosts(rows pgx.Rows) ([]model.BlogPost, error) {
	posts := []model.BlogPost{}
	for rows.Next() {
		var post model.BlogPost
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.AuthorID,
			&post.Author,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
