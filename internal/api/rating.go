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

type RatingHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

func NewRatingHandler(svc *catalog.Service, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{svc: svc, logger: logger}
}

type rateRequest struct {
	// No binding tag: "required" rejects a literal 0, and a 0 score
	// must reach the service to come back as ErrInvalidScore (422),
	// not a generic 400.
	Score int `json:"score"`
}

// Rate handles PUT /v1/movies/:id/rating
//
// Upsert: the caller's second rating of the same movie overwrites the
// first, so PUT (idempotent) rather than POST.
func (h *RatingHandler) Rate(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.svc.RateMovie(c.Request.Context(), middleware.GetIdentity(c), movieID, req.Score)
	if err != nil {
		respondError(c, h.logger, err, "rate movie")
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GetMine handles GET /v1/movies/:id/rating/me (optional auth).
// A null body means "no opinion yet" — anonymous callers and unrated
// movies both land here, and neither is an error.
func (h *RatingHandler) GetMine(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	rating, err := h.svc.GetUserRating(c.Request.Context(), middleware.GetIdentity(c), movieID)
	if err != nil {
		respondError(c, h.logger, err, "get user rating")
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GetSummary handles GET /v1/movies/:id/rating
func (h *RatingHandler) GetSummary(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	summary, err := h.svc.GetMovieRating(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, h.logger, err, "get movie rating")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// TopRated handles GET /v1/movies/top?limit=10
func (h *RatingHandler) TopRated(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
		limit = parsed
	}

	top, err := h.svc.GetTopRatedMovies(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err, "list top rated movies")
		return
	}
	c.JSON(http.StatusOK, top)
}

// History handles GET /v1/ratings/me?limit=20
func (h *RatingHandler) History(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
		limit = parsed
	}

	history, err := h.svc.GetUserRatings(c.Request.Context(), middleware.GetIdentity(c), limit)
	if err != nil {
		respondError(c, h.logger, err, "list user ratings")
		return
	}
	c.JSON(http.StatusOK, history)
}
