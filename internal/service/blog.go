package service

import (
	"context"
	"errors"

	"github.com/bloghub/backend/internal/db"
	"github.com/bloghub/backend/internal/model"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type PostStore interface {
	InsertPost(ctx context.Context, authorID int64, title, content string) (*model.BlogPost, error)
	GetPost(ctx context.Context, postID int64) (*model.BlogPost, error)
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	FilterPosts(ctx context.Context, f model.PostFilter) ([]model.BlogPost, error)
	UpdatePost(ctx context.Context, postID int64, title, content *string) (*model.BlogPost, error)
	DeletePost(ctx context.Context, postID int64) error
	PostExists(ctx context.Context, postID int64) (bool, error)
}

type CommentStore interface {
	InsertComment(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error)
	GetComment(ctx context.Context, commentID int64) (*model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content *string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

type BlogService struct {
	posts    PostStore
	comments CommentStore
	log      *zap.Logger
}

func NewBlogService(posts PostStore, comments CommentStore, log *zap.Logger) *BlogService {
	return &BlogService{posts: posts, comments: comments, log: log}
}

// CreatePost writes a post owned by the caller. The author always comes
// from the resolved identity, a client-supplied author field is ignored.
func (s *BlogService) CreatePost(ctx context.Context, caller *model.AuthUser, title, content string) (*model.BlogPost, error) {
	if title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	post, err := s.posts.InsertPost(ctx, caller.ID, title, content)
	if err != nil {
		return nil, err
	}

	s.log.Info("post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", caller.ID))
	return post, nil
}

func (s *BlogService) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return s.posts.ListPosts(ctx)
}

// GetPost returns the post with its comments embedded, matching the
// detail representation.
func (s *BlogService) GetPost(ctx context.Context, postID int64) (*model.BlogPost, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comments, err := s.comments.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, postID int64, fields model.PostUpdateRequest) (*model.BlogPost, error) {
	if fields.Title == nil && fields.Content == nil {
		return nil, ErrInvalidInput
	}

	post, err := s.posts.UpdatePost(ctx, postID, fields.Title, fields.Content)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, postID int64) error {
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// FilterPosts narrows the post list by author and/or calendar date of
// creation; both filters compose with AND semantics. Ordering accepts
// created_at and -created_at, anything else is rejected.
func (s *BlogService) FilterPosts(ctx context.Context, f model.PostFilter) ([]model.BlogPost, error) {
	switch f.Ordering {
	case "", "created_at", "-created_at":
	default:
		return nil, ErrInvalidInput
	}
	return s.posts.FilterPosts(ctx, f)
}

func (s *BlogService) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	return s.comments.ListCommentsByPost(ctx, postID)
}

// CreateComment attaches a comment to an existing post; the author is
// the caller, never client-supplied.
func (s *BlogService) CreateComment(ctx context.Context, postID int64, caller *model.AuthUser, content string) (*model.Comment, error) {
	if content == "" {
		return nil, ErrInvalidInput
	}

	exists, err := s.posts.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	comment, err := s.comments.InsertComment(ctx, postID, caller.ID, content)
	if err != nil {
		return nil, err
	}

	s.log.Info("comment created", zap.Int64("comment_id", comment.ID), zap.Int64("post_id", postID))
	return comment, nil
}

func (s *BlogService) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *BlogService) UpdateComment(ctx context.Context, commentID int64, fields model.CommentUpdateRequest) (*model.Comment, error) {
	if fields.Content == nil {
		return nil, ErrInvalidInput
	}

	comment, err := s.comments.UpdateComment(ctx, commentID, fields.Content)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *BlogService) DeleteComment(ctx context.Context, commentID int64) error {
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
