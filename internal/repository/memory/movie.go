package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/models"
)

type MovieStore struct {
	mu     sync.Mutex
	movies map[uuid.UUID]*models.Movie
	seq    map[uuid.UUID]int64
	next   int64

	// Cross-store references so Delete can cascade the way the postgres
	// store's transaction does.
	comments *CommentStore
	ratings  *RatingStore
}

func NewMovieStore(comments *CommentStore, ratings *RatingStore) *MovieStore {
	return &MovieStore{
		movies:   make(map[uuid.UUID]*models.Movie),
		seq:      make(map[uuid.UUID]int64),
		comments: comments,
		ratings:  ratings,
	}
}

func (s *MovieStore) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m := *movie
	m.ID = uuid.New()
	m.Views = 0
	m.CreatedAt = now
	m.UpdatedAt = &now

	s.movies[m.ID] = &m
	s.next++
	s.seq[m.ID] = s.next

	copied := m
	return &copied, nil
}

func (s *MovieStore) GetByID(ctx context.Context, movieID uuid.UUID) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[movieID]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (s *MovieStore) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.movies[movie.ID]
	if !ok {
		return nil, nil
	}

	now := time.Now()
	existing.Title = movie.Title
	existing.Description = movie.Description
	existing.Director = movie.Director
	existing.Genres = movie.Genres
	existing.Cast = movie.Cast
	existing.ReleaseYear = movie.ReleaseYear
	existing.ImageURL = movie.ImageURL
	existing.ImageStorageID = movie.ImageStorageID
	existing.UpdatedAt = &now

	copied := *existing
	return &copied, nil
}

func (s *MovieStore) Delete(ctx context.Context, movieID uuid.UUID) error {
	s.mu.Lock()
	delete(s.movies, movieID)
	delete(s.seq, movieID)
	s.mu.Unlock()

	s.comments.deleteByMovie(movieID)
	s.ratings.deleteByMovie(movieID)
	return nil
}

func (s *MovieStore) List(ctx context.Context) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(m *models.Movie) bool { return true }, 0), nil
}

func (s *MovieStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(m *models.Movie) bool { return m.OwnerID == ownerID }, 0), nil
}

func (s *MovieStore) ListByDirector(ctx context.Context, director string) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(m *models.Movie) bool { return m.Director == director }, 0), nil
}

func (s *MovieStore) ListByGenres(ctx context.Context, genres []string, exclude uuid.UUID) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(genres))
	for _, g := range genres {
		wanted[g] = true
	}
	return s.collect(func(m *models.Movie) bool {
		if m.ID == exclude {
			return false
		}
		for _, g := range m.Genres {
			if wanted[g] {
				return true
			}
		}
		return false
	}, 0), nil
}

func (s *MovieStore) SearchField(ctx context.Context, field, search string, limit int) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	return s.collect(func(m *models.Movie) bool {
		var haystack string
		switch field {
		case "title":
			haystack = m.Title
		case "description":
			haystack = m.Description
		case "director":
			haystack = m.Director
		}
		return strings.Contains(strings.ToLower(haystack), needle)
	}, limit), nil
}

func (s *MovieStore) IncrementViews(ctx context.Context, movieID uuid.UUID) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[movieID]
	if !ok {
		return 0, false, nil
	}
	now := time.Now()
	m.Views++
	m.UpdatedAt = &now
	return m.Views, true, nil
}

// collect gathers matching movies newest-first. Caller holds the lock.
// limit 0 means unlimited; unknown search fields simply match nothing.
func (s *MovieStore) collect(match func(*models.Movie) bool, limit int) []models.Movie {
	movies := make([]models.Movie, 0)
	for _, m := range s.movies {
		if match(m) {
			movies = append(movies, *m)
		}
	}
	sort.Slice(movies, func(i, j int) bool {
		return s.seq[movies[i].ID] > s.seq[movies[j].ID]
	})
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}

// FailingMovieStore errors on every call. It exists for exercising the
// fail-soft listing path in tests.
type FailingMovieStore struct {
	MovieStore
}

func (s *FailingMovieStore) List(ctx context.Context) ([]models.Movie, error) {
	return nil, fmt.Errorf("store unavailable")
}
