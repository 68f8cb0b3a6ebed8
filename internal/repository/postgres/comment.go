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

type CommentStore struct {
	pool *pgxpool.Pool
}

func NewCommentStore(pool *pgxpool.Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

const commentColumns = `id, movie_id, user_id, content, likes, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var cm models.Comment
	err := row.Scan(
		&cm.ID,
		&cm.MovieID,
		&cm.UserID,
		&cm.Content,
		&cm.Likes,
		&cm.CreatedAt,
		&cm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (movie_id, user_id, content, likes, created_at)
		VALUES ($1, $2, $3, 0, now())
		RETURNING ` + commentColumns

	cm, err := scanComment(s.pool.QueryRow(ctx, query, comment.MovieID, comment.UserID, comment.Content))
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return cm, nil
}

func (s *CommentStore) GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	cm, err := scanComment(s.pool.QueryRow(ctx, query, commentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return cm, nil
}

func (s *CommentStore) UpdateContent(ctx context.Context, commentID uuid.UUID, content string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + commentColumns

	cm, err := scanComment(s.pool.QueryRow(ctx, query, commentID, content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return cm, nil
}

func (s *CommentStore) Delete(ctx context.Context, commentID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentStore) ListByMovie(ctx context.Context, movieID uuid.UUID, limit int) ([]models.Comment, error) {
	// Served by idx_comments_movie_created (movie_id, created_at DESC).
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE movie_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return s.queryComments(ctx, query, movieID, limit)
}

func (s *CommentStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return s.queryComments(ctx, query, userID, limit)
}

// IncrementLikes is a single UPDATE; repeat likes from the same caller
// all count, there is no dedup table.
func (s *CommentStore) IncrementLikes(ctx context.Context, commentID uuid.UUID) (int64, bool, error) {
	query := `
		UPDATE comments
		SET likes = likes + 1
		WHERE id = $1
		RETURNING likes`

	var likes int64
	err := s.pool.QueryRow(ctx, query, commentID).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("increment likes: %w", err)
	}
	return likes, true, nil
}

func (s *CommentStore) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
