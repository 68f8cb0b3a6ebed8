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

// capturingFeed records everything published to it.
type capturingFeed struct {
	published []models.CommentWithAuthor
}

func (f *capturingFeed) PublishComment(c models.CommentWithAuthor) {
	f.published = append(f.published, c)
}

func TestAddCommentPublishesToFeed(t *testing.T) {
	ctx := context.Background()

	comments := memory.NewCommentStore()
	ratings := memory.NewRatingStore()
	movies := memory.NewMovieStore(comments, ratings)
	users := memory.NewUserStore()
	feed := &capturingFeed{}

	svc := catalog.NewService(catalog.Deps{
		Users:    users,
		Movies:   movies,
		Comments: comments,
		Ratings:  ratings,
		Feed:     feed,
	})

	identity := &auth.Identity{Subject: "idp|alice", Email: "alice@example.com"}
	user, err := svc.SyncUser(ctx, identity, "Alice", "")
	if err != nil {
		t.Fatalf("SyncUser failed: %v", err)
	}
	movie, err := svc.CreateMovie(ctx, identity, catalog.MovieInput{Title: "Jaws", Description: "Shark"})
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	comment, err := svc.AddComment(ctx, identity, movie.ID, "still holds up")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if len(feed.published) != 1 {
		t.Fatalf("expected 1 published comment, got %d", len(feed.published))
	}
	got := feed.published[0]
	if got.ID != comment.ID {
		t.Errorf("published comment id mismatch: %s vs %s", got.ID, comment.ID)
	}
	if got.Author == nil || got.Author.ID != user.ID {
		t.Error("expected the author to ride along on the feed event")
	}
	if got.Author.Email != "" {
		t.Errorf("author email leaked into feed event: %q", got.Author.Email)
	}
}

func TestCommentLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	author, authorIdent := e.mustUser(t, "idp|author", "Author")
	_, other := e.mustUser(t, "idp|other", "Other")
	movie := e.mustMovie(t, authorIdent, catalog.MovieInput{Title: "Rocky", Description: "Boxing"})

	// Commenting on a missing movie is NotFound.
	if _, err := e.svc.AddComment(ctx, authorIdent, uuid.New(), "x"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing movie, got %v", err)
	}

	comment, err := e.svc.AddComment(ctx, authorIdent, movie.ID, "great")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	// Listing joins the author's public record.
	listed, err := e.svc.GetCommentsByMovie(ctx, movie.ID, 0)
	if err != nil {
		t.Fatalf("GetCommentsByMovie failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(listed))
	}
	if listed[0].Author == nil || listed[0].Author.ID != author.ID {
		t.Error("expected author attached to listed comment")
	}

	// Only the author can edit.
	if _, err := e.svc.UpdateComment(ctx, other, comment.ID, "hijacked"); !errors.Is(err, catalog.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-author edit, got %v", err)
	}
	updated, err := e.svc.UpdateComment(ctx, authorIdent, comment.ID, "actually, fantastic")
	if err != nil {
		t.Fatalf("author edit failed: %v", err)
	}
	if updated.Content != "actually, fantastic" {
		t.Errorf("expected rewritten content, got %q", updated.Content)
	}

	// Only the author can delete.
	if err := e.svc.DeleteComment(ctx, other, comment.ID); !errors.Is(err, catalog.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-author delete, got %v", err)
	}
	if err := e.svc.DeleteComment(ctx, authorIdent, comment.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	listed, err = e.svc.GetCommentsByMovie(ctx, movie.ID, 0)
	if err != nil {
		t.Fatalf("GetCommentsByMovie failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected 0 comments after delete, got %d", len(listed))
	}
}

func TestCommentsNewestFirstWithLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, identity := e.mustUser(t, "idp|alice", "Alice")
	movie := e.mustMovie(t, identity, catalog.MovieInput{Title: "Memento", Description: "Backwards"})

	for _, text := range []string{"first", "second", "third"} {
		if _, err := e.svc.AddComment(ctx, identity, movie.ID, text); err != nil {
			t.Fatalf("AddComment failed: %v", err)
		}
	}

	listed, err := e.svc.GetCommentsByMovie(ctx, movie.ID, 2)
	if err != nil {
		t.Fatalf("GetCommentsByMovie failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected limit to apply, got %d comments", len(listed))
	}
	if listed[0].Content != "third" || listed[1].Content != "second" {
		t.Errorf("expected newest first, got [%q %q]", listed[0].Content, listed[1].Content)
	}
}

func TestLikeComment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, alice := e.mustUser(t, "idp|alice", "Alice")
	_, bob := e.mustUser(t, "idp|bob", "Bob")
	movie := e.mustMovie(t, alice, catalog.MovieInput{Title: "Amélie", Description: "Paris"})
	comment, err := e.svc.AddComment(ctx, alice, movie.ID, "charming")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	// Anonymous likers are turned away.
	if _, err := e.svc.LikeComment(ctx, nil, comment.ID); !errors.Is(err, catalog.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}

	// Repeat likes from the same caller keep counting — no dedup.
	if _, err := e.svc.LikeComment(ctx, bob, comment.ID); err != nil {
		t.Fatalf("LikeComment failed: %v", err)
	}
	likes, err := e.svc.LikeComment(ctx, bob, comment.ID)
	if err != nil {
		t.Fatalf("LikeComment failed: %v", err)
	}
	if likes != 2 {
		t.Errorf("expected 2 likes after two calls, got %d", likes)
	}

	if _, err := e.svc.LikeComment(ctx, bob, uuid.New()); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown comment, got %v", err)
	}
}

func TestGetCommentsByUserJoinsMovies(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice, aliceIdent := e.mustUser(t, "idp|alice", "Alice")
	movie := e.mustMovie(t, aliceIdent, catalog.MovieInput{Title: "Fargo", Description: "Snow"})
	if _, err := e.svc.AddComment(ctx, aliceIdent, movie.ID, "oh yah"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	history, err := e.svc.GetCommentsByUser(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("GetCommentsByUser failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(history))
	}
	if history[0].Movie == nil || history[0].Movie.Title != "Fargo" {
		t.Error("expected the movie joined onto the comment")
	}

	if _, err := e.svc.GetCommentsByUser(ctx, uuid.New(), 0); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
