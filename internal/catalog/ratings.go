package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/auth"
	"github.com/reelbase/reelbase/internal/models"
)

const defaultRatingHistoryLimit = 20

// RateMovie records the caller's score for a movie. Upsert semantics:
// rating the same movie twice leaves exactly one row, holding the later
// score. Idempotent per (movie, user).
func (s *Service) RateMovie(ctx context.Context, identity *auth.Identity, movieID uuid.UUID, score int) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

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

	rating, err := s.ratings.Upsert(ctx, movieID, user.ID, score)
	if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}

	s.invalidateListing(ctx)
	return rating, nil
}

// GetUserRating returns the caller's rating for a movie, or nil when
// there is none. Nil covers three states — anonymous caller, unsynced
// caller, no rating yet — and none of them is an error: the frontend
// renders all three as "no opinion yet".
func (s *Service) GetUserRating(ctx context.Context, identity *auth.Identity, movieID uuid.UUID) (*models.Rating, error) {
	if identity == nil {
		return nil, nil
	}
	user, err := s.users.GetBySubject(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	rating, err := s.ratings.GetByMovieAndUser(ctx, movieID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

// GetMovieRating computes {average, total} for one movie. {0, 0} for an
// unrated movie; ErrNotFound only when the movie itself is absent.
func (s *Service) GetMovieRating(ctx context.Context, movieID uuid.UUID) (*models.RatingSummary, error) {
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

	summary := Summarize(ratings)
	return &summary, nil
}

// GetTopRatedMovies ranks movies by derived average rating, excluding
// anything unrated, and attaches each movie's creator.
func (s *Service) GetTopRatedMovies(ctx context.Context, limit int) ([]models.TopMovie, error) {
	if limit <= 0 {
		limit = 10
	}

	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	ratings, err := s.ratings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	top := TopRated(movies, ratings, limit)
	for i := range top {
		creator, err := s.users.GetByID(ctx, top[i].OwnerID)
		if err != nil {
			return nil, fmt.Errorf("get creator: %w", err)
		}
		if creator != nil {
			top[i].Creator = creator.PublicProfile()
		}
	}
	return top, nil
}

// GetUserRatings returns the caller's rating history, newest first,
// each joined with its movie. Ratings whose movie has since been
// deleted are skipped rather than returned half-empty.
func (s *Service) GetUserRatings(ctx context.Context, identity *auth.Identity, limit int) ([]models.RatingWithMovie, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRatingHistoryLimit
	}

	ratings, err := s.ratings.ListByUser(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}

	history := make([]models.RatingWithMovie, 0, len(ratings))
	for _, r := range ratings {
		movie, err := s.movies.GetByID(ctx, r.MovieID)
		if err != nil {
			return nil, fmt.Errorf("get rated movie: %w", err)
		}
		if movie == nil {
			continue
		}
		history = append(history, models.RatingWithMovie{
			Rating: r,
			Movie:  movie,
		})
	}
	return history, nil
}
