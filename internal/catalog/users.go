package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/auth"
	"github.com/reelbase/reelbase/internal/models"
)

// profileTopMovies is how many of a user's most-viewed movies their
// profile summary carries.
const profileTopMovies = 5

// SyncUser creates or refreshes the user row for a verified identity.
// The client calls this after every login, so the first successful
// login is what creates the account.
func (s *Service) SyncUser(ctx context.Context, identity *auth.Identity, name, imageURL string) (*models.User, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	if name == "" {
		name = identity.Email
	}

	user, err := s.users.Upsert(ctx, identity.Subject, identity.Email, name, imageURL)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return user, nil
}

// GetMe returns the caller's own record, email included.
func (s *Service) GetMe(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	return s.resolveUser(ctx, identity)
}

// GetUserByID returns another user's public record, email stripped.
func (s *Service) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user.PublicProfile(), nil
}

// DeleteUser removes the caller's account row. Their movies, comments
// and ratings stay — orphaned author references are tolerated, and the
// joins that would surface them drop the author instead.
func (s *Service) DeleteUser(ctx context.Context, identity *auth.Identity) error {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// GetTopUsersByMovieCount ranks all users by how many movies they own,
// annotating each with their five most-viewed titles. O(users × movies)
// by construction; fine at catalog scale.
func (s *Service) GetTopUsersByMovieCount(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for _, u := range users {
		owned, err := s.movies.ListByOwner(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list owned movies: %w", err)
		}

		profiles = append(profiles, models.UserProfile{
			User:        *u.PublicProfile(),
			TotalMovies: len(owned),
			TopMovies:   topMoviesByViews(owned, profileTopMovies),
		})
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].TotalMovies > profiles[j].TotalMovies
	})
	return profiles, nil
}
