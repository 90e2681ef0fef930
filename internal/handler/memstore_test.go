package handler

import (
	"context"
	"sync"
	"time"

	"github.com/bloghub/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore backs the route tests with the same contracts the Postgres
// repository satisfies.
type memStore struct {
	mu           sync.Mutex
	nextUserID   int64
	nextPostID   int64
	nextComment  int64
	users        map[string]*model.User
	refreshToken map[string]*model.RefreshToken
	posts        map[int64]*model.BlogPost
	comments     map[int64]*model.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]*model.User{},
		refreshToken: map[string]*model.RefreshToken{},
		posts:        map[int64]*model.BlogPost{},
		comments:     map[int64]*model.Comment{},
	}
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	m.nextUserID++
	user := &model.User{
		ID:           m.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[username] = user
	return user, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memStore) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) InsertRefreshToken(_ context.Context, rec model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshToken[rec.TokenID] = &rec
	return nil
}

func (m *memStore) GetRefreshToken(_ context.Context, tokenID string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.refreshToken[tokenID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *rec
	return &copied, nil
}

func (m *memStore) RevokeRefreshToken(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.refreshToken[tokenID]
	if !ok {
		return pgx.ErrNoRows
	}
	rec.Revoked = true
	return nil
}

func (m *memStore) InsertPost(_ context.Context, authorID int64, title, content string) (*model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPostID++
	now := time.Now()
	var author *string
	for name, user := range m.users {
		if user.ID == authorID {
			n := name
			author = &n
		}
	}
	post := &model.BlogPost{
		ID:        m.nextPostID,
		Title:     title,
		Content:   content,
		AuthorID:  &authorID,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts[post.ID] = post
	copied := *post
	return &copied, nil
}

func (m *memStore) GetPost(_ context.Context, postID int64) (*model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *post
	return &copied, nil
}

func (m *memStore) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return m.FilterPosts(ctx, model.PostFilter{})
}

func (m *memStore) FilterPosts(_ context.Context, f model.PostFilter) ([]model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.BlogPost{}
	for id := int64(1); id <= m.nextPostID; id++ {
		post, ok := m.posts[id]
		if !ok {
			continue
		}
		if f.AuthorID != nil && (post.AuthorID == nil || *post.AuthorID != *f.AuthorID) {
			continue
		}
		if f.Date != nil && post.CreatedAt.Format("2006-01-02") != f.Date.Format("2006-01-02") {
			continue
		}
		out = append(out, *post)
	}
	if f.Ordering == "-created_at" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *memStore) UpdatePost(_ context.Context, postID int64, title, content *string) (*model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if title != nil {
		post.Title = *title
	}
	if content != nil {
		post.Content = *content
	}
	post.UpdatedAt = time.Now()
	copied := *post
	return &copied, nil
}

func (m *memStore) DeletePost(_ context.Context, postID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, postID)
	return nil
}

func (m *memStore) PostExists(_ context.Context, postID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[postID]
	return ok, nil
}

func (m *memStore) InsertComment(_ context.Context, postID, authorID int64, content string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextComment++
	comment := &model.Comment{
		ID:        m.nextComment,
		PostID:    postID,
		AuthorID:  &authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.comments[comment.ID] = comment
	copied := *comment
	return &copied, nil
}

func (m *memStore) GetComment(_ context.Context, commentID int64) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (m *memStore) ListCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Comment{}
	for id := int64(1); id <= m.nextComment; id++ {
		comment, ok := m.comments[id]
		if !ok || comment.PostID != postID {
			continue
		}
		out = append(out, *comment)
	}
	return out, nil
}

func (m *memStore) UpdateComment(_ context.Context, commentID int64, content *string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[commentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if content != nil {
		comment.Content = *content
	}
	copied := *comment
	return &copied, nil
}

func (m *memStore) DeleteComment(_ context.Context, commentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[commentID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.comments, commentID)
	return nil
}
