package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/auth"
	"github.com/reelbase/reelbase/internal/models"
)

const defaultCommentLimit = 20

// GetCommentsByMovie returns up to limit comments, newest first, each
// joined with its author's public record. Author is nil when the author
// deleted their account — the comment itself survives.
func (s *Service) GetCommentsByMovie(ctx context.Context, movieID uuid.UUID, limit int) ([]models.CommentWithAuthor, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}

	if limit <= 0 {
		limit = defaultCommentLimit
	}

	comments, err := s.comments.ListByMovie(ctx, movieID, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return s.joinAuthors(ctx, comments)
}

func (s *Service) joinAuthors(ctx context.Context, comments []models.Comment) ([]models.CommentWithAuthor, error) {
	joined := make([]models.CommentWithAuthor, 0, len(comments))
	for _, cm := range comments {
		author, err := s.users.GetByID(ctx, cm.UserID)
		if err != nil {
			return nil, fmt.Errorf("get comment author: %w", err)
		}
		if author != nil {
			author = author.PublicProfile()
		}
		joined = append(joined, models.CommentWithAuthor{
			Comment: cm,
			Author:  author,
		})
	}
	return joined, nil
}

// AddComment posts a comment on a movie and publishes it to the live
// feed, if one is wired.
func (s *Service) AddComment(ctx context.Context, identity *auth.Identity, movieID uuid.UUID, content string) (*models.Comment, error) {
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

	comment, err := s.comments.Create(ctx, &models.Comment{
		MovieID: movieID,
		UserID:  user.ID,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	if s.feed != nil {
		s.feed.PublishComment(models.CommentWithAuthor{
			Comment: *comment,
			Author:  user.PublicProfile(),
		})
	}
	return comment, nil
}

// UpdateComment rewrites a comment's text. Author only.
func (s *Service) UpdateComment(ctx context.Context, identity *auth.Identity, commentID uuid.UUID, content string) (*models.Comment, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if comment.UserID != user.ID {
		return nil, ErrPermissionDenied
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteComment removes a comment. Author only.
func (s *Service) DeleteComment(ctx context.Context, identity *auth.Identity, commentID uuid.UUID) error {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if comment == nil {
		return ErrNotFound
	}
	if comment.UserID != user.ID {
		return ErrPermissionDenied
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// LikeComment bumps the like counter. Any logged-in caller, any number
// of times — there is no per-user dedup, the counter is just a counter.
func (s *Service) LikeComment(ctx context.Context, identity *auth.Identity, commentID uuid.UUID) (int64, error) {
	if _, err := s.resolveUser(ctx, identity); err != nil {
		return 0, err
	}

	likes, found, err := s.comments.IncrementLikes(ctx, commentID)
	if err != nil {
		return 0, fmt.Errorf("increment likes: %w", err)
	}
	if !found {
		return 0, ErrNotFound
	}
	return likes, nil
}

// GetCommentsByUser returns a user's comment history, newest first,
// each joined with the movie it was left on.
func (s *Service) GetCommentsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CommentWithMovie, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if limit <= 0 {
		limit = defaultCommentLimit
	}

	comments, err := s.comments.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user comments: %w", err)
	}

	joined := make([]models.CommentWithMovie, 0, len(comments))
	for _, cm := range comments {
		movie, err := s.movies.GetByID(ctx, cm.MovieID)
		if err != nil {
			return nil, fmt.Errorf("get commented movie: %w", err)
		}
		joined = append(joined, models.CommentWithMovie{
			Comment: cm,
			Movie:   movie,
		})
	}
	return joined, nil
}
