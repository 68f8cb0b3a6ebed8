// Package memory holds in-memory repository implementations backed by
// plain maps and a mutex. They honor the same contracts as the postgres
// stores (nil-nil misses, empty-slice lists, newest-first ordering) and
// back the service tests, which never touch a real database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/models"
)

type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	seq   map[uuid.UUID]int64
	next  int64
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[uuid.UUID]*models.User),
		seq:   make(map[uuid.UUID]int64),
	}
}

func (s *UserStore) Upsert(ctx context.Context, subject, email, name, imageURL string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Subject == subject {
			u.Email = email
			u.Name = name
			u.ImageURL = imageURL
			copied := *u
			return &copied, nil
		}
	}

	u := &models.User{
		ID:       uuid.New(),
		Subject:  subject,
		Email:    email,
		Name:     name,
		ImageURL: imageURL,
		JoinedAt: time.Now(),
	}
	s.users[u.ID] = u
	s.next++
	s.seq[u.ID] = s.next

	copied := *u
	return &copied, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Subject == subject {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
	delete(s.seq, userID)
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	// Newest first; the insertion sequence breaks timestamp ties so the
	// order is deterministic even on coarse clocks.
	sort.Slice(users, func(i, j int) bool {
		return s.seq[users[i].ID] > s.seq[users[j].ID]
	})
	return users, nil
}
