package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bloghub/backend/internal/model"
	"github.com/bloghub/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.BlogService
}

func NewPostHandler(svc *service.BlogService) *PostHandler {
	return &PostHandler{svc: svc}
}

// List godoc
// @Summary List blog posts
// @Tags blog
// @Produce json
// @Success 200 {array} model.BlogPost
// @Router /blog/posts/ [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context())
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Create godoc
// @Summary Create a blog post
// @Description The author is the authenticated caller.
// @Tags blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PostCreateRequest true "Title and content"
// @Success 201 {object} model.BlogPost
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /blog/posts/ [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req model.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), GetAuthUser(c), req.Title, req.Content)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Get godoc
// @Summary Get a blog post with its comments
// @Tags blog
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.BlogPost
// @Failure 404 {object} map[string]string
// @Router /blog/posts/{id}/ [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update handles PUT: both fields are required.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), id, model.PostUpdateRequest{
		Title:   &req.Title,
		Content: &req.Content,
	})
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Patch handles partial updates: only supplied fields change.
func (h *PostHandler) Patch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), id, req)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a blog post
// @Tags blog
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /blog/posts/{id}/ [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		writeBlogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Filter godoc
// @Summary Filter posts by author and/or creation date
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param author query int false "Author user ID"
// @Param date query string false "Calendar date (YYYY-MM-DD)"
// @Param ordering query string false "created_at or -created_at"
// @Success 200 {array} model.BlogPost
// @Failure 400 {object} map[string]string
// @Router /blog/posts/filter/ [get]
func (h *PostHandler) Filter(c *gin.Context) {
	var filter model.PostFilter

	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author"})
			return
		}
		filter.AuthorID = &authorID
	}

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		filter.Date = &date
	}

	filter.Ordering = c.Query("ordering")

	posts, err := h.svc.FilterPosts(c.Request.Context(), filter)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
