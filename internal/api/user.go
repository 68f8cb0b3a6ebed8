package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/middleware"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

func NewUserHandler(svc *catalog.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type syncUserRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Sync handles POST /v1/users/sync
//
// The client calls this after every login. First login creates the user
// row (subject + email come from the verified token, not the body);
// later logins just refresh name and avatar.
func (h *UserHandler) Sync(c *gin.Context) {
	var req syncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.SyncUser(c.Request.Context(), middleware.GetIdentity(c), req.Name, req.ImageURL)
	if err != nil {
		respondError(c, h.logger, err, "sync user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetMe handles GET /v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.svc.GetMe(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, h.logger, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe handles DELETE /v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), middleware.GetIdentity(c)); err != nil {
		respondError(c, h.logger, err, "delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetByID handles GET /v1/users/:id — another user's public record.
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.svc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Top handles GET /v1/users/top — contributors ranked by movie count,
// each with their five most-viewed titles.
func (h *UserHandler) Top(c *gin.Context) {
	profiles, err := h.svc.GetTopUsersByMovieCount(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list top users")
		return
	}
	c.JSON(http.StatusOK, profiles)
}
