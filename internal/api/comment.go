package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/middleware"
	"go.uber.org/zap"
)

type CommentHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

func NewCommentHandler(svc *catalog.Service, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: logger}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListByMovie handles GET /v1/movies/:id/comments?limit=20
func (h *CommentHandler) ListByMovie(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	comments, err := h.svc.GetCommentsByMovie(c.Request.Context(), movieID, limit)
	if err != nil {
		respondError(c, h.logger, err, "list comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create handles POST /v1/movies/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), middleware.GetIdentity(c), movieID, req.Content)
	if err != nil {
		respondError(c, h.logger, err, "add comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PATCH /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.UpdateComment(c.Request.Context(), middleware.GetIdentity(c), commentID, req.Content)
	if err != nil {
		respondError(c, h.logger, err, "update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), middleware.GetIdentity(c), commentID); err != nil {
		respondError(c, h.logger, err, "delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": commentID})
}

// Like handles POST /v1/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	likes, err := h.svc.LikeComment(c.Request.Context(), middleware.GetIdentity(c), commentID)
	if err != nil {
		respondError(c, h.logger, err, "like comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// ListByUser handles GET /v1/users/:id/comments?limit=20
func (h *CommentHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	comments, err := h.svc.GetCommentsByUser(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, h.logger, err, "list user comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// parseLimit reads ?limit=. 0 means "use the service default"; a bad
// value writes the 400 itself and reports !ok.
func parseLimit(c *gin.Context) (int, bool) {
	l := c.Query("limit")
	if l == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(l)
	if err != nil || parsed < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
		return 0, false
	}
	return parsed, true
}
