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

type MovieStore struct {
	pool *pgxpool.Pool
}

func NewMovieStore(pool *pgxpool.Pool) *MovieStore {
	return &MovieStore{pool: pool}
}

// Optional columns are coalesced to zero values on the way out, so the
// model never carries pointers for plain text fields. On the way in,
// nullif() turns zero values back into NULLs.
const movieColumns = `
	id, owner_id, title, description,
	coalesce(director, ''), coalesce(genres, '{}'), coalesce(cast_list, '{}'),
	coalesce(release_year, 0), coalesce(image_url, ''), coalesce(image_storage_id, ''),
	views, created_at, updated_at`

func scanMovie(row pgx.Row) (*models.Movie, error) {
	var m models.Movie
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Title,
		&m.Description,
		&m.Director,
		&m.Genres,
		&m.Cast,
		&m.ReleaseYear,
		&m.ImageURL,
		&m.ImageStorageID,
		&m.Views,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MovieStore) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	query := `
		INSERT INTO movies (
			owner_id, title, description, director, genres, cast_list,
			release_year, image_url, image_storage_id, views, created_at, updated_at
		)
		VALUES ($1, $2, $3, nullif($4, ''), $5, $6, nullif($7, 0), nullif($8, ''), nullif($9, ''), 0, now(), now())
		RETURNING ` + movieColumns

	m, err := scanMovie(s.pool.QueryRow(ctx, query,
		movie.OwnerID,
		movie.Title,
		movie.Description,
		movie.Director,
		movie.Genres,
		movie.Cast,
		movie.ReleaseYear,
		movie.ImageURL,
		movie.ImageStorageID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return m, nil
}

func (s *MovieStore) GetByID(ctx context.Context, movieID uuid.UUID) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	m, err := scanMovie(s.pool.QueryRow(ctx, query, movieID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

func (s *MovieStore) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	query := `
		UPDATE movies
		SET title = $2, description = $3, director = nullif($4, ''),
		    genres = $5, cast_list = $6, release_year = nullif($7, 0),
		    image_url = nullif($8, ''), image_storage_id = nullif($9, ''),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + movieColumns

	m, err := scanMovie(s.pool.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Director,
		movie.Genres,
		movie.Cast,
		movie.ReleaseYear,
		movie.ImageURL,
		movie.ImageStorageID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return m, nil
}

// Delete removes the movie and everything hanging off it — comments and
// ratings — in one transaction, so a half-deleted movie can't be observed.
func (s *MovieStore) Delete(ctx context.Context, movieID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete movie: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE movie_id = $1`, movieID); err != nil {
		return fmt.Errorf("delete movie ratings: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE movie_id = $1`, movieID); err != nil {
		return fmt.Errorf("delete movie comments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, movieID); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete movie: %w", err)
	}
	return nil
}

func (s *MovieStore) List(ctx context.Context) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY created_at DESC`
	return s.queryMovies(ctx, query)
}

func (s *MovieStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE owner_id = $1 ORDER BY created_at DESC`
	return s.queryMovies(ctx, query, ownerID)
}

func (s *MovieStore) ListByDirector(ctx context.Context, director string) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE director = $1 ORDER BY created_at DESC`
	return s.queryMovies(ctx, query, director)
}

// ListByGenres uses the array-overlap operator: any shared genre matches.
func (s *MovieStore) ListByGenres(ctx context.Context, genres []string, exclude uuid.UUID) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE genres && $1 AND id <> $2 ORDER BY created_at DESC`
	return s.queryMovies(ctx, query, genres, exclude)
}

// SearchField runs a full-text search over a single column. The column
// name is taken from a fixed whitelist, never from user input.
func (s *MovieStore) SearchField(ctx context.Context, field, search string, limit int) ([]models.Movie, error) {
	var column string
	switch field {
	case "title":
		column = "title"
	case "description":
		column = "description"
	case "director":
		column = "coalesce(director, '')"
	default:
		return nil, fmt.Errorf("unknown search field %q", field)
	}

	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE to_tsvector('simple', ` + column + `) @@ plainto_tsquery('simple', $1)
		ORDER BY created_at DESC
		LIMIT $2`
	return s.queryMovies(ctx, query, search, limit)
}

// IncrementViews is a single UPDATE, so concurrent visits serialize on
// the row and no increment is lost.
func (s *MovieStore) IncrementViews(ctx context.Context, movieID uuid.UUID) (int64, bool, error) {
	query := `
		UPDATE movies
		SET views = views + 1, updated_at = now()
		WHERE id = $1
		RETURNING views`

	var views int64
	err := s.pool.QueryRow(ctx, query, movieID).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("increment views: %w", err)
	}
	return views, true, nil
}

func (s *MovieStore) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	movies := make([]models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}
