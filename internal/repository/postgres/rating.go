package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reelbase/reelbase/internal/models"
)

type RatingStore struct {
	pool *pgxpool.Pool
}

func NewRatingStore(pool *pgxpool.Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

const ratingColumns = `id, movie_id, user_id, score, created_at, updated_at`

func scanRating(row pgx.Row) (*models.Rating, error) {
	var r models.Rating
	err := row.Scan(
		&r.ID,
		&r.MovieID,
		&r.UserID,
		&r.Score,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Upsert rides the UNIQUE (movie_id, user_id) constraint: a re-rate
// hits the conflict path and overwrites the score in place, keeping
// created_at and the original row id. One rating per user per movie,
// guaranteed by the index, not by application-level check-then-insert.
func (s *RatingStore) Upsert(ctx context.Context, movieID, userID uuid.UUID, score int) (*models.Rating, error) {
	query := `
		INSERT INTO ratings (movie_id, user_id, score, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (movie_id, user_id) DO UPDATE
		SET score = EXCLUDED.score, updated_at = now()
		RETURNING ` + ratingColumns

	r, err := scanRating(s.pool.QueryRow(ctx, query, movieID, userID, score))
	if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}
	return r, nil
}

func (s *RatingStore) GetByMovieAndUser(ctx context.Context, movieID, userID uuid.UUID) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE movie_id = $1 AND user_id = $2`

	r, err := scanRating(s.pool.QueryRow(ctx, query, movieID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return r, nil
}

func (s *RatingStore) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE movie_id = $1`
	return s.queryRatings(ctx, query, movieID)
}

func (s *RatingStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return s.queryRatings(ctx, query, userID, limit)
}

func (s *RatingStore) ListAll(ctx context.Context) ([]models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings`
	return s.queryRatings(ctx, query)
}

func (s *RatingStore) queryRatings(ctx context.Context, query string, args ...any) ([]models.Rating, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return ratings, nil
}
