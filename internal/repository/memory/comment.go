package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/models"
)

type CommentStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*models.Comment
	seq      map[uuid.UUID]int64
	next     int64
}

func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[uuid.UUID]*models.Comment),
		seq:      make(map[uuid.UUID]int64),
	}
}

func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cm := *comment
	cm.ID = uuid.New()
	cm.Likes = 0
	cm.CreatedAt = time.Now()
	cm.UpdatedAt = nil

	s.comments[cm.ID] = &cm
	s.next++
	s.seq[cm.ID] = s.next

	copied := cm
	return &copied, nil
}

func (s *CommentStore) GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cm, ok := s.comments[commentID]
	if !ok {
		return nil, nil
	}
	copied := *cm
	return &copied, nil
}

func (s *CommentStore) UpdateContent(ctx context.Context, commentID uuid.UUID, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cm, ok := s.comments[commentID]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	cm.Content = content
	cm.UpdatedAt = &now

	copied := *cm
	return &copied, nil
}

func (s *CommentStore) Delete(ctx context.Context, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.comments, commentID)
	delete(s.seq, commentID)
	return nil
}

func (s *CommentStore) ListByMovie(ctx context.Context, movieID uuid.UUID, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(cm *models.Comment) bool { return cm.MovieID == movieID }, limit), nil
}

func (s *CommentStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(cm *models.Comment) bool { return cm.UserID == userID }, limit), nil
}

func (s *CommentStore) IncrementLikes(ctx context.Context, commentID uuid.UUID) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cm, ok := s.comments[commentID]
	if !ok {
		return 0, false, nil
	}
	cm.Likes++
	return cm.Likes, true, nil
}

func (s *CommentStore) deleteByMovie(movieID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cm := range s.comments {
		if cm.MovieID == movieID {
			delete(s.comments, id)
			delete(s.seq, id)
		}
	}
}

func (s *CommentStore) collect(match func(*models.Comment) bool, limit int) []models.Comment {
	comments := make([]models.Comment, 0)
	for _, cm := range s.comments {
		if match(cm) {
			comments = append(comments, *cm)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return s.seq[comments[i].ID] > s.seq[comments[j].ID]
	})
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments
}
