package handler

import (
	"net/http"

	"github.com/bloghub/backend/internal/model"
	"github.com/bloghub/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.BlogService
}

func NewCommentHandler(svc *service.BlogService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// ListByPost godoc
// @Summary List comments on a post
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {array} model.Comment
// @Router /blog/posts/{id}/comments/ [get]
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), postID)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create godoc
// @Summary Comment on a post
// @Description The author is the authenticated caller.
// @Tags blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body model.CommentCreateRequest true "Content"
// @Success 201 {object} model.Comment
// @Failure 404 {object} map[string]string
// @Router /blog/posts/{id}/comments/ [post]
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), postID, GetAuthUser(c), req.Content)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Get(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), commentID)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req model.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.svc.UpdateComment(c.Request.Context(), commentID, req)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), commentID); err != nil {
		writeBlogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
