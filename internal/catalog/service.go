// Package catalog is the service layer: every operation the HTTP
// handlers expose lives here, composed from the repositories and the
// pure aggregation helpers. Handlers translate the sentinel errors in
// errors.go to status codes; repositories stay ignorant of both.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/auth"
	"github.com/reelbase/reelbase/internal/models"
	"github.com/reelbase/reelbase/internal/repository"
	"github.com/reelbase/reelbase/internal/storage"
	"go.uber.org/zap"
)

// searchResultCap bounds both the per-field searches and the merged
// result list, matching the catalog's search contract.
const searchResultCap = 10

// ListingCache holds the annotated movie listing between reads.
// Best-effort on both sides: a miss or a failed write never fails the
// request.
type ListingCache interface {
	GetListing(ctx context.Context) ([]models.RatedMovie, bool)
	SetListing(ctx context.Context, movies []models.RatedMovie)
	Invalidate(ctx context.Context)
}

// CommentPublisher receives each newly created comment, for the live
// feed. Publishing must not block the request.
type CommentPublisher interface {
	PublishComment(comment models.CommentWithAuthor)
}

// Deps wires a Service. Cache, Blobs and Feed are optional — nil simply
// disables that concern.
type Deps struct {
	Users    repository.UserRepository
	Movies   repository.MovieRepository
	Comments repository.CommentRepository
	Ratings  repository.RatingRepository

	Cache  ListingCache
	Blobs  storage.BlobStore
	Feed   CommentPublisher
	Logger *zap.Logger
}

type Service struct {
	users    repository.UserRepository
	movies   repository.MovieRepository
	comments repository.CommentRepository
	ratings  repository.RatingRepository

	cache  ListingCache
	blobs  storage.BlobStore
	feed   CommentPublisher
	logger *zap.Logger
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    d.Users,
		movies:   d.Movies,
		comments: d.Comments,
		ratings:  d.Ratings,
		cache:    d.Cache,
		blobs:    d.Blobs,
		feed:     d.Feed,
		logger:   logger,
	}
}

// resolveUser maps a verified identity to its user row. The two failure
// modes stay distinct: no identity at all vs an identity nobody synced.
func (s *Service) resolveUser(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	user, err := s.users.GetBySubject(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if user == nil {
		return nil, ErrUserMissing
	}
	return user, nil
}

func (s *Service) invalidateListing(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// MovieInput carries the caller-controlled movie fields. Ids, owner,
// views and timestamps are never client-settable.
type MovieInput struct {
	Title          string
	Description    string
	Director       string
	Genres         []string
	Cast           []string
	ReleaseYear    int
	ImageURL       string
	ImageStorageID string
}

func (in MovieInput) toMovie() models.Movie {
	return models.Movie{
		Title:          in.Title,
		Description:    in.Description,
		Director:       in.Director,
		Genres:         in.Genres,
		Cast:           in.Cast,
		ReleaseYear:    in.ReleaseYear,
		ImageURL:       in.ImageURL,
		ImageStorageID: in.ImageStorageID,
	}
}

// CreateMovie inserts a catalog entry owned by the caller.
func (s *Service) CreateMovie(ctx context.Context, identity *auth.Identity, input MovieInput) (*models.Movie, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	movie := input.toMovie()
	movie.OwnerID = user.ID

	created, err := s.movies.Create(ctx, &movie)
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.invalidateListing(ctx)
	return created, nil
}

// UpdateMovie overwrites a movie's fields. Only the owner may update —
// same rule as delete.
func (s *Service) UpdateMovie(ctx context.Context, identity *auth.Identity, movieID uuid.UUID, input MovieInput) (*models.Movie, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}
	if movie.OwnerID != user.ID {
		return nil, ErrPermissionDenied
	}

	updated := input.toMovie()
	updated.ID = movieID

	result, err := s.movies.Update(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if result == nil {
		return nil, ErrNotFound
	}

	s.invalidateListing(ctx)
	return result, nil
}

// DeleteMovie removes a movie with its comments and ratings, and frees
// the stored image blob when one exists. Owner only.
func (s *Service) DeleteMovie(ctx context.Context, identity *auth.Identity, movieID uuid.UUID) error {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return err
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return ErrNotFound
	}
	if movie.OwnerID != user.ID {
		return ErrPermissionDenied
	}

	if err := s.movies.Delete(ctx, movieID); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	// Blob deletion is explicit, not implied by the row delete. A
	// failure here leaves an unreferenced file behind, which is
	// preferable to failing a delete that already happened.
	if s.blobs != nil && movie.ImageStorageID != "" {
		if err := s.blobs.Delete(ctx, movie.ImageStorageID); err != nil {
			s.logger.Warn("failed to delete movie image blob",
				zap.String("storage_id", movie.ImageStorageID),
				zap.Error(err),
			)
		}
	}

	s.invalidateListing(ctx)
	return nil
}

// GetMovieByID returns the movie with its derived average rating —
// 0 when nobody has rated it.
func (s *Service) GetMovieByID(ctx context.Context, movieID uuid.UUID) (*models.RatedMovie, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}

	ratings, err := s.ratings.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list movie ratings: %w", err)
	}

	return &models.RatedMovie{
		Movie:  *movie,
		Rating: Summarize(ratings).AverageRating,
	}, nil
}

// ListMovies returns every movie annotated with its average rating,
// best first (rating desc, views desc).
//
// This is the one fail-soft path in the system: the landing page must
// always render, so any internal failure logs and yields an empty list
// instead of an error.
func (s *Service) ListMovies(ctx context.Context) []models.RatedMovie {
	if s.cache != nil {
		if cached, ok := s.cache.GetListing(ctx); ok {
			return cached
		}
	}

	movies, err := s.movies.List(ctx)
	if err != nil {
		s.logger.Error("failed to list movies", zap.Error(err))
		return []models.RatedMovie{}
	}

	ratings, err := s.ratings.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list ratings", zap.Error(err))
		return []models.RatedMovie{}
	}

	annotated := AnnotateMovies(movies, ratings)
	SortByRating(annotated)

	if s.cache != nil {
		s.cache.SetListing(ctx, annotated)
	}
	return annotated
}

// SearchMovies fans out over the three searchable fields. Empty search
// text means "everything, newest first". Otherwise each field search is
// capped at 10, results merge director → title → description (first
// occurrence wins on dedup), and the final list is capped at 10.
func (s *Service) SearchMovies(ctx context.Context, search string) ([]models.RatedMovie, error) {
	if search == "" {
		movies, err := s.movies.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list movies: %w", err)
		}
		return s.annotate(ctx, movies)
	}

	byDirector, err := s.movies.SearchField(ctx, "director", search, searchResultCap)
	if err != nil {
		return nil, fmt.Errorf("search director: %w", err)
	}
	byTitle, err := s.movies.SearchField(ctx, "title", search, searchResultCap)
	if err != nil {
		return nil, fmt.Errorf("search title: %w", err)
	}
	byDescription, err := s.movies.SearchField(ctx, "description", search, searchResultCap)
	if err != nil {
		return nil, fmt.Errorf("search description: %w", err)
	}

	merged := dedupeMovies(byDirector, byTitle, byDescription)
	if len(merged) > searchResultCap {
		merged = merged[:searchResultCap]
	}
	return s.annotate(ctx, merged)
}

func (s *Service) annotate(ctx context.Context, movies []models.Movie) ([]models.RatedMovie, error) {
	ratings, err := s.ratings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return AnnotateMovies(movies, ratings), nil
}

// IncrementViews bumps the view counter once per detail-page visit.
func (s *Service) IncrementViews(ctx context.Context, movieID uuid.UUID) (int64, error) {
	views, found, err := s.movies.IncrementViews(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	if !found {
		return 0, ErrNotFound
	}
	s.invalidateListing(ctx)
	return views, nil
}

// SimilarByGenre returns other movies sharing at least one genre with
// the given one.
func (s *Service) SimilarByGenre(ctx context.Context, movieID uuid.UUID) ([]models.Movie, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}
	if len(movie.Genres) == 0 {
		return []models.Movie{}, nil
	}

	similar, err := s.movies.ListByGenres(ctx, movie.Genres, movieID)
	if err != nil {
		return nil, fmt.Errorf("list similar movies: %w", err)
	}
	return similar, nil
}

// MoviesByDirector is an exact-match filter, not a text search.
func (s *Service) MoviesByDirector(ctx context.Context, director string) ([]models.Movie, error) {
	movies, err := s.movies.ListByDirector(ctx, director)
	if err != nil {
		return nil, fmt.Errorf("list movies by director: %w", err)
	}
	return movies, nil
}
