package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/reelbase/reelbase/internal/catalog"
)

func TestSearchEmptyReturnsNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	e.mustMovie(t, owner, catalog.MovieInput{Title: "First", Description: "d"})
	e.mustMovie(t, owner, catalog.MovieInput{Title: "Second", Description: "d"})
	e.mustMovie(t, owner, catalog.MovieInput{Title: "Third", Description: "d"})

	results, err := e.svc.SearchMovies(ctx, "")
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	got := []string{results[0].Title, results[1].Title, results[2].Title}
	want := []string{"Third", "Second", "First"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected newest-first order %v, got %v", want, got)
		}
	}
}

func TestSearchMergesFieldsWithDedup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")

	// "nolan" hits the director field here...
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Inception", Description: "Dream heist", Director: "Christopher Nolan",
	})
	// ...the title field here...
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Nolan: A Portrait", Description: "Biography", Director: "Jane Doe",
	})
	// ...the description field here...
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Backstage", Description: "On set with Nolan", Director: "John Roe",
	})
	// ...and both director and title here. Must appear exactly once.
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Nolan on Nolan", Description: "Interviews", Director: "Christopher Nolan",
	})
	// Control: no match anywhere.
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Unrelated", Description: "Nothing here", Director: "Someone Else",
	})

	results, err := e.svc.SearchMovies(ctx, "nolan")
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	seen := make(map[string]int)
	for _, r := range results {
		seen[r.Title]++
	}
	if seen["Nolan on Nolan"] != 1 {
		t.Errorf("double-match movie appeared %d times, want 1", seen["Nolan on Nolan"])
	}
	if seen["Unrelated"] != 0 {
		t.Error("non-matching movie leaked into results")
	}

	// Director matches outrank title-only and description-only matches.
	directorRank := -1
	descriptionRank := -1
	for i, r := range results {
		switch r.Title {
		case "Inception":
			directorRank = i
		case "Backstage":
			descriptionRank = i
		}
	}
	if directorRank == -1 || descriptionRank == -1 {
		t.Fatalf("expected both field matches present, got %v", seen)
	}
	if directorRank > descriptionRank {
		t.Errorf("director match at %d ranked below description match at %d", directorRank, descriptionRank)
	}
}

func TestSearchCapsAtTen(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	for i := 0; i < 12; i++ {
		e.mustMovie(t, owner, catalog.MovieInput{
			Title:       fmt.Sprintf("Space Odyssey %d", i),
			Description: "d",
		})
	}

	results, err := e.svc.SearchMovies(ctx, "space")
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if len(results) != 10 {
		t.Errorf("expected results capped at 10, got %d", len(results))
	}
}

func TestSimilarByGenre(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	anchor := e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Anchor", Description: "d", Genres: []string{"sci-fi", "drama"},
	})
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "SciFiToo", Description: "d", Genres: []string{"sci-fi"},
	})
	e.mustMovie(t, owner, catalog.MovieInput{
		Title: "Comedy", Description: "d", Genres: []string{"comedy"},
	})
	bare := e.mustMovie(t, owner, catalog.MovieInput{Title: "Bare", Description: "d"})

	similar, err := e.svc.SimilarByGenre(ctx, anchor.ID)
	if err != nil {
		t.Fatalf("SimilarByGenre failed: %v", err)
	}
	if len(similar) != 1 {
		t.Fatalf("expected 1 similar movie, got %d", len(similar))
	}
	if similar[0].Title != "SciFiToo" {
		t.Errorf("expected SciFiToo, got %q", similar[0].Title)
	}
	// The anchor never recommends itself.
	for _, m := range similar {
		if m.ID == anchor.ID {
			t.Error("anchor movie appeared in its own similar list")
		}
	}

	// A movie with no genres has nothing to match on — empty, not error.
	similar, err = e.svc.SimilarByGenre(ctx, bare.ID)
	if err != nil {
		t.Fatalf("SimilarByGenre failed: %v", err)
	}
	if len(similar) != 0 {
		t.Errorf("expected no matches for genre-less movie, got %d", len(similar))
	}
}

func TestMoviesByDirectorExactMatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, owner := e.mustUser(t, "idp|owner", "Owner")
	e.mustMovie(t, owner, catalog.MovieInput{Title: "A", Description: "d", Director: "Denis Villeneuve"})
	e.mustMovie(t, owner, catalog.MovieInput{Title: "B", Description: "d", Director: "Denis Villeneuve"})
	e.mustMovie(t, owner, catalog.MovieInput{Title: "C", Description: "d", Director: "Denis"})

	movies, err := e.svc.MoviesByDirector(ctx, "Denis Villeneuve")
	if err != nil {
		t.Fatalf("MoviesByDirector failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 exact matches, got %d", len(movies))
	}
	for _, m := range movies {
		if m.Director != "Denis Villeneuve" {
			t.Errorf("partial-match director leaked in: %q", m.Director)
		}
	}
}
