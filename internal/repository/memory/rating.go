package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/models"
)

type RatingStore struct {
	mu      sync.Mutex
	ratings map[uuid.UUID]*models.Rating
	seq     map[uuid.UUID]int64
	next    int64
}

func NewRatingStore() *RatingStore {
	return &RatingStore{
		ratings: make(map[uuid.UUID]*models.Rating),
		seq:     make(map[uuid.UUID]int64),
	}
}

// Upsert mirrors the postgres ON CONFLICT path: a re-rate keeps the row
// id and created_at, overwrites the score, and sets updated_at.
func (s *RatingStore) Upsert(ctx context.Context, movieID, userID uuid.UUID, score int) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.ratings {
		if r.MovieID == movieID && r.UserID == userID {
			now := time.Now()
			r.Score = score
			r.UpdatedAt = &now
			copied := *r
			return &copied, nil
		}
	}

	r := &models.Rating{
		ID:        uuid.New(),
		MovieID:   movieID,
		UserID:    userID,
		Score:     score,
		CreatedAt: time.Now(),
	}
	s.ratings[r.ID] = r
	s.next++
	s.seq[r.ID] = s.next

	copied := *r
	return &copied, nil
}

func (s *RatingStore) GetByMovieAndUser(ctx context.Context, movieID, userID uuid.UUID) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.ratings {
		if r.MovieID == movieID && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *RatingStore) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(r *models.Rating) bool { return r.MovieID == movieID }, 0), nil
}

func (s *RatingStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(r *models.Rating) bool { return r.UserID == userID }, limit), nil
}

func (s *RatingStore) ListAll(ctx context.Context) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(r *models.Rating) bool { return true }, 0), nil
}

func (s *RatingStore) deleteByMovie(movieID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.ratings {
		if r.MovieID == movieID {
			delete(s.ratings, id)
			delete(s.seq, id)
		}
	}
}

func (s *RatingStore) collect(match func(*models.Rating) bool, limit int) []models.Rating {
	ratings := make([]models.Rating, 0)
	for _, r := range s.ratings {
		if match(r) {
			ratings = append(ratings, *r)
		}
	}
	sort.Slice(ratings, func(i, j int) bool {
		return s.seq[ratings[i].ID] > s.seq[ratings[j].ID]
	})
	if limit > 0 && len(ratings) > limit {
		ratings = ratings[:limit]
	}
	return ratings
}
