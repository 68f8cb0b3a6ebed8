package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/auth"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/models"
	"github.com/reelbase/reelbase/internal/repository/memory"
)

// env wires a Service against the in-memory stores. No database, no
// network — the stores honor the same contracts as the postgres ones.
type env struct {
	svc      *catalog.Service
	users    *memory.UserStore
	movies   *memory.MovieStore
	comments *memory.CommentStore
	ratings  *memory.RatingStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	comments := memory.NewCommentStore()
	ratings := memory.NewRatingStore()
	movies := memory.NewMovieStore(comments, ratings)
	users := memory.NewUserStore()

	svc := catalog.NewService(catalog.Deps{
		Users:    users,
		Movies:   movies,
		Comments: comments,
		Ratings:  ratings,
	})

	return &env{svc: svc, users: users, movies: movies, comments: comments, ratings: ratings}
}

// mustUser provisions a synced user and returns it with its identity.
func (e *env) mustUser(t *testing.T, subject, name string) (*models.User, *auth.Identity) {
	t.Helper()

	identity := &auth.Identity{Subject: subject, Email: subject + "@example.com"}
	user, err := e.svc.SyncUser(context.Background(), identity, name, "")
	if err != nil {
		t.Fatalf("SyncUser failed: %v", err)
	}
	return user, identity
}

func (e *env) mustMovie(t *testing.T, identity *auth.Identity, input catalog.MovieInput) *models.Movie {
	t.Helper()

	movie, err := e.svc.CreateMovie(context.Background(), identity, input)
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	return movie
}

func TestSyncUserCreatesThenUpdates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Given: an identity nobody has seen before
	identity := &auth.Identity{Subject: "idp|alice", Email: "alice@example.com"}

	// When: it syncs for the first time
	created, err := e.svc.SyncUser(ctx, identity, "Alice", "https://img/alice.png")
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected an id to be assigned")
	}
	if created.JoinedAt.IsZero() {
		t.Error("expected JoinedAt to be set on first sync")
	}

	// When: the same identity syncs again with a new name
	updated, err := e.svc.SyncUser(ctx, identity, "Alice B.", "https://img/alice2.png")
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	// Then: same row, refreshed fields
	if updated.ID != created.ID {
		t.Errorf("second sync created a new user: %s vs %s", updated.ID, created.ID)
	}
	if updated.Name != "Alice B." {
		t.Errorf("expected refreshed name, got %q", updated.Name)
	}
}

func TestCreateMovieAuthStates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	input := catalog.MovieInput{Title: "Heat", Description: "Crime drama"}

	// Anonymous caller: not authenticated.
	if _, err := e.svc.CreateMovie(ctx, nil, input); !errors.Is(err, catalog.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated for nil identity, got %v", err)
	}

	// Verified but never synced: distinct "user record missing" state.
	stranger := &auth.Identity{Subject: "idp|stranger"}
	if _, err := e.svc.CreateMovie(ctx, stranger, input); !errors.Is(err, catalog.ErrUserMissing) {
		t.Errorf("expected ErrUserMissing for unsynced identity, got %v", err)
	}

	// Synced caller: movie created, owned by them, zero views.
	user, identity := e.mustUser(t, "idp|alice", "Alice")
	movie, err := e.svc.CreateMovie(ctx, identity, input)
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	if movie.OwnerID != user.ID {
		t.Errorf("expected owner %s, got %s", user.ID, movie.OwnerID)
	}
	if movie.Views != 0 {
		t.Errorf("expected views=0 on creation, got %d", movie.Views)
	}
}

func TestUpdateMovieEnforcesOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	_, intruder := e.mustUser(t, "idp|intruder", "Intruder")
	movie := e.mustMovie(t, owner, catalog.MovieInput{Title: "Alien", Description: "Horror in space"})

	// Non-owner update is denied — same rule as delete.
	_, err := e.svc.UpdateMovie(ctx, intruder, movie.ID, catalog.MovieInput{Title: "Hijacked", Description: "x"})
	if !errors.Is(err, catalog.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-owner, got %v", err)
	}

	// Owner update goes through and bumps updated_at.
	updated, err := e.svc.UpdateMovie(ctx, owner, movie.ID, catalog.MovieInput{Title: "Aliens", Description: "More horror"})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "Aliens" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set")
	}

	// Updating a missing movie is NotFound, not a silent no-op.
	_, err = e.svc.UpdateMovie(ctx, owner, uuid.New(), catalog.MovieInput{Title: "x", Description: "y"})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing movie, got %v", err)
	}
}

func TestDeleteMovieCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	_, viewer := e.mustUser(t, "idp|viewer", "Viewer")
	movie := e.mustMovie(t, owner, catalog.MovieInput{Title: "Seven", Description: "Thriller"})

	// Given: a comment and two ratings hanging off the movie
	if _, err := e.svc.AddComment(ctx, viewer, movie.ID, "gripping"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if _, err := e.svc.RateMovie(ctx, viewer, movie.ID, 5); err != nil {
		t.Fatalf("RateMovie failed: %v", err)
	}
	if _, err := e.svc.RateMovie(ctx, owner, movie.ID, 4); err != nil {
		t.Fatalf("RateMovie failed: %v", err)
	}

	// Non-owner delete is denied.
	if err := e.svc.DeleteMovie(ctx, viewer, movie.ID); !errors.Is(err, catalog.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-owner delete, got %v", err)
	}

	// Owner delete removes the movie and everything attached.
	if err := e.svc.DeleteMovie(ctx, owner, movie.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	if _, err := e.svc.GetMovieByID(ctx, movie.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected movie to be gone, got %v", err)
	}
	if _, err := e.svc.GetCommentsByMovie(ctx, movie.ID, 0); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected comments lookup to report missing movie, got %v", err)
	}
	if _, err := e.svc.GetMovieRating(ctx, movie.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected rating lookup to report missing movie, got %v", err)
	}

	// The rating rows themselves are gone, not just unreachable.
	leftover, err := e.ratings.ListByMovie(ctx, movie.ID)
	if err != nil {
		t.Fatalf("ListByMovie failed: %v", err)
	}
	if len(leftover) != 0 {
		t.Errorf("expected 0 ratings after cascade, got %d", len(leftover))
	}
}

func TestIncrementViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	movie := e.mustMovie(t, owner, catalog.MovieInput{Title: "Up", Description: "Balloons"})

	// Three sequential visits → views=3.
	var views int64
	var err error
	for i := 0; i < 3; i++ {
		views, err = e.svc.IncrementViews(ctx, movie.ID)
		if err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
	}
	if views != 3 {
		t.Errorf("expected views=3 after three visits, got %d", views)
	}

	if _, err := e.svc.IncrementViews(ctx, uuid.New()); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown movie, got %v", err)
	}
}

func TestListMoviesSortsByRatingThenViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	_, a := e.mustUser(t, "idp|a", "A")
	_, b := e.mustUser(t, "idp|b", "B")

	low := e.mustMovie(t, owner, catalog.MovieInput{Title: "Low", Description: "d"})
	highQuiet := e.mustMovie(t, owner, catalog.MovieInput{Title: "HighQuiet", Description: "d"})
	highPopular := e.mustMovie(t, owner, catalog.MovieInput{Title: "HighPopular", Description: "d"})

	for _, rate := range []struct {
		id    uuid.UUID
		ident *auth.Identity
		score int
	}{
		{low.ID, a, 2},
		{highQuiet.ID, a, 5}, {highQuiet.ID, b, 5},
		{highPopular.ID, a, 5}, {highPopular.ID, b, 5},
	} {
		if _, err := e.svc.RateMovie(ctx, rate.ident, rate.id, rate.score); err != nil {
			t.Fatalf("RateMovie failed: %v", err)
		}
	}
	// Tie between the two 5.0 movies; views break it.
	if _, err := e.svc.IncrementViews(ctx, highPopular.ID); err != nil {
		t.Fatalf("IncrementViews failed: %v", err)
	}

	listing := e.svc.ListMovies(ctx)
	if len(listing) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(listing))
	}
	got := []string{listing[0].Title, listing[1].Title, listing[2].Title}
	want := []string{"HighPopular", "HighQuiet", "Low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestListMoviesFailSoft(t *testing.T) {
	// Given: a movie store that errors on every list
	svc := catalog.NewService(catalog.Deps{
		Users:    memory.NewUserStore(),
		Movies:   &memory.FailingMovieStore{},
		Comments: memory.NewCommentStore(),
		Ratings:  memory.NewRatingStore(),
	})

	// Then: the listing read swallows the fault and stays renderable.
	listing := svc.ListMovies(context.Background())
	if listing == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(listing) != 0 {
		t.Errorf("expected empty listing on store failure, got %d entries", len(listing))
	}
}
