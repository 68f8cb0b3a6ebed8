package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/models"
)

// Every method takes a context.Context first: these are all I/O against
// the store, and the HTTP request's context must be able to cancel them.
//
// Point lookups return nil, nil when the row doesn't exist — "absent" is
// not an error at this layer. The service layer decides whether absence
// is a 404, a null result, or a provisioning gap.
//
// List methods return empty slices (never nil) so JSON serializes to [].

// UserRepository handles user records and the subject → user mapping the
// identity layer depends on.
type UserRepository interface {
	// Upsert creates a user for an unseen subject, or patches name, email
	// and image for a known one. JoinedAt is only set on first insert.
	Upsert(ctx context.Context, subject, email, name, imageURL string) (*models.User, error)

	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetBySubject maps an identity-provider subject to a user row.
	// nil, nil here means "verified caller with no account yet".
	GetBySubject(ctx context.Context, subject string) (*models.User, error)

	// Delete removes the user row only. Movies, comments and ratings the
	// user left behind are deliberately kept (orphaned author references
	// are tolerated; joins drop them).
	Delete(ctx context.Context, userID uuid.UUID) error

	List(ctx context.Context) ([]models.User, error)
}

// MovieRepository handles catalog entries.
type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)

	GetByID(ctx context.Context, movieID uuid.UUID) (*models.Movie, error)

	// Update overwrites the mutable fields and bumps updated_at.
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)

	// Delete removes the movie together with its comments and ratings in
	// one transaction. The caller has already checked ownership.
	Delete(ctx context.Context, movieID uuid.UUID) error

	// List returns all movies, newest first.
	List(ctx context.Context) ([]models.Movie, error)

	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Movie, error)

	ListByDirector(ctx context.Context, director string) ([]models.Movie, error)

	// ListByGenres returns movies sharing at least one of the given
	// genres, excluding the given movie id.
	ListByGenres(ctx context.Context, genres []string, exclude uuid.UUID) ([]models.Movie, error)

	// SearchField runs a text search over one field ("title",
	// "description" or "director"), capped at limit rows.
	SearchField(ctx context.Context, field, query string, limit int) ([]models.Movie, error)

	// IncrementViews bumps the view counter by one in a single UPDATE so
	// concurrent visits never lose increments. Returns the new count;
	// nil-row absence surfaces as (0, pgx.ErrNoRows)-style not-found —
	// here reported as found=false.
	IncrementViews(ctx context.Context, movieID uuid.UUID) (int64, bool, error)
}

// CommentRepository handles the comment thread under each movie.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)

	GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)

	UpdateContent(ctx context.Context, commentID uuid.UUID, content string) (*models.Comment, error)

	Delete(ctx context.Context, commentID uuid.UUID) error

	// ListByMovie returns up to limit comments, newest first.
	ListByMovie(ctx context.Context, movieID uuid.UUID, limit int) ([]models.Comment, error)

	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Comment, error)

	// IncrementLikes bumps the like counter atomically. found=false when
	// the comment doesn't exist.
	IncrementLikes(ctx context.Context, commentID uuid.UUID) (int64, bool, error)
}

// RatingRepository handles per-user movie scores.
type RatingRepository interface {
	// Upsert inserts a rating, or overwrites the score when the
	// (movie, user) pair already has one. created_at is preserved on
	// overwrite; updated_at is set.
	Upsert(ctx context.Context, movieID, userID uuid.UUID, score int) (*models.Rating, error)

	// GetByMovieAndUser is the uniqueness-index lookup.
	GetByMovieAndUser(ctx context.Context, movieID, userID uuid.UUID) (*models.Rating, error)

	ListByMovie(ctx context.Context, movieID uuid.UUID) ([]models.Rating, error)

	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Rating, error)

	// ListAll feeds the aggregation layer: listings and top-rated views
	// recompute averages from the full rating set on every read.
	ListAll(ctx context.Context) ([]models.Rating, error)
}
