package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/middleware"
	"go.uber.org/zap"
)

// MovieHandler holds the dependencies for the catalog endpoints. The
// handler only parses, delegates and translates — every rule lives in
// the service.
type MovieHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

func NewMovieHandler(svc *catalog.Service, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{svc: svc, logger: logger}
}

// movieRequest is the caller-controlled subset of a movie. Id, owner,
// views and timestamps are server-side only — reusing the model here
// would let clients set them.
type movieRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	Director       string   `json:"director"`
	Genres         []string `json:"genres"`
	Cast           []string `json:"cast"`
	ReleaseYear    int      `json:"release_year"`
	ImageURL       string   `json:"image_url"`
	ImageStorageID string   `json:"image_storage_id"`
}

func (r movieRequest) toInput() catalog.MovieInput {
	return catalog.MovieInput{
		Title:          r.Title,
		Description:    r.Description,
		Director:       r.Director,
		Genres:         r.Genres,
		Cast:           r.Cast,
		ReleaseYear:    r.ReleaseYear,
		ImageURL:       r.ImageURL,
		ImageStorageID: r.ImageStorageID,
	}
}

// Create handles POST /v1/movies
func (h *MovieHandler) Create(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.svc.CreateMovie(c.Request.Context(), middleware.GetIdentity(c), req.toInput())
	if err != nil {
		respondError(c, h.logger, err, "create movie")
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// Update handles PUT /v1/movies/:id
func (h *MovieHandler) Update(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.svc.UpdateMovie(c.Request.Context(), middleware.GetIdentity(c), movieID, req.toInput())
	if err != nil {
		respondError(c, h.logger, err, "update movie")
		return
	}
	c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /v1/movies/:id
func (h *MovieHandler) Delete(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	if err := h.svc.DeleteMovie(c.Request.Context(), middleware.GetIdentity(c), movieID); err != nil {
		respondError(c, h.logger, err, "delete movie")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": movieID})
}

// GetByID handles GET /v1/movies/:id
func (h *MovieHandler) GetByID(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	movie, err := h.svc.GetMovieByID(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, h.logger, err, "get movie")
		return
	}
	c.JSON(http.StatusOK, movie)
}

// List handles GET /v1/movies and its query-parameter variants:
//
//	?search=q   → three-field text search, capped at 10
//	?director=n → exact director filter
//	(neither)   → full listing, best-rated first; never errors
func (h *MovieHandler) List(c *gin.Context) {
	if director := c.Query("director"); director != "" {
		movies, err := h.svc.MoviesByDirector(c.Request.Context(), director)
		if err != nil {
			respondError(c, h.logger, err, "list movies by director")
			return
		}
		c.JSON(http.StatusOK, movies)
		return
	}

	if search, ok := c.GetQuery("search"); ok {
		movies, err := h.svc.SearchMovies(c.Request.Context(), search)
		if err != nil {
			respondError(c, h.logger, err, "search movies")
			return
		}
		c.JSON(http.StatusOK, movies)
		return
	}

	c.JSON(http.StatusOK, h.svc.ListMovies(c.Request.Context()))
}

// IncrementViews handles POST /v1/movies/:id/views
func (h *MovieHandler) IncrementViews(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	views, err := h.svc.IncrementViews(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, h.logger, err, "increment views")
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": views})
}

// Similar handles GET /v1/movies/:id/similar
func (h *MovieHandler) Similar(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	movies, err := h.svc.SimilarByGenre(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, h.logger, err, "list similar movies")
		return
	}
	c.JSON(http.StatusOK, movies)
}
