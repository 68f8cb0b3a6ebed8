package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelbase/reelbase/internal/catalog"
	"go.uber.org/zap"
)

// respondError maps each domain sentinel to its own status and code.
// The codes matter as much as the statuses: "user_not_registered" and
// "permission_denied" are both 403, and the frontend branches on the
// code to tell "finish signing up" apart from "not yours".
func respondError(c *gin.Context, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, catalog.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "you must be logged in",
			"code":  "not_authenticated",
		})
	case errors.Is(err, catalog.ErrUserMissing):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "no user record for this account; sync your profile first",
			"code":  "user_not_registered",
		})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
			"code":  "not_found",
		})
	case errors.Is(err, catalog.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "you don't have permission to do that",
			"code":  "permission_denied",
		})
	case errors.Is(err, catalog.ErrInvalidScore):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": catalog.ErrInvalidScore.Error(),
			"code":  "invalid_score",
		})
	default:
		logger.Error("request failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": action + " failed",
			"code":  "internal",
		})
	}
}
