package model

import "time"

// BlogPost's author is nullable at the schema level: posts outlive a
// deleted account, every API path still forces author := caller.
type BlogPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  *int64    `json:"-"`
	Author    *string   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post"`
	AuthorID  *int64    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type PostCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PostUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type CommentCreateRequest struct {
	Content string `json:"content"`
}

type CommentUpdateRequest struct {
	Content *string `json:"content"`
}

// PostFilter carries the typed query parameters for the filter endpoint.
// Nil fields are not applied; both set means AND. Date matches the
// calendar date of created_at, not a timestamp range.
type PostFilter struct {
	AuthorID *int64
	Date     *time.Time
	Ordering string
}
