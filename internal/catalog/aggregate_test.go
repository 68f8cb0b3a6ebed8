package catalog_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/catalog"
	"github.com/reelbase/reelbase/internal/models"
)

func ratingsFor(movieID uuid.UUID, scores ...int) []models.Rating {
	ratings := make([]models.Rating, 0, len(scores))
	for _, score := range scores {
		ratings = append(ratings, models.Rating{
			ID:      uuid.New(),
			MovieID: movieID,
			UserID:  uuid.New(),
			Score:   score,
		})
	}
	return ratings
}

func TestSummarizeEmpty(t *testing.T) {
	summary := catalog.Summarize(nil)

	if summary.AverageRating != 0 {
		t.Errorf("expected average 0 for no ratings, got %v", summary.AverageRating)
	}
	if summary.TotalRatings != 0 {
		t.Errorf("expected total 0 for no ratings, got %d", summary.TotalRatings)
	}
}

func TestSummarizeRoundsToOneDecimal(t *testing.T) {
	movieID := uuid.New()

	// 4 + 4 + 5 = 13 / 3 = 4.333... → 4.3
	summary := catalog.Summarize(ratingsFor(movieID, 4, 4, 5))

	if summary.AverageRating != 4.3 {
		t.Errorf("expected average 4.3, got %v", summary.AverageRating)
	}
	if summary.TotalRatings != 3 {
		t.Errorf("expected total 3, got %d", summary.TotalRatings)
	}
}

func TestAnnotateMoviesPreservesOrder(t *testing.T) {
	first := models.Movie{ID: uuid.New(), Title: "First"}
	second := models.Movie{ID: uuid.New(), Title: "Second"}

	ratings := ratingsFor(second.ID, 5, 3)

	annotated := catalog.AnnotateMovies([]models.Movie{first, second}, ratings)

	if len(annotated) != 2 {
		t.Fatalf("expected 2 annotated movies, got %d", len(annotated))
	}
	if annotated[0].Title != "First" || annotated[1].Title != "Second" {
		t.Errorf("annotation reordered the input: %v, %v", annotated[0].Title, annotated[1].Title)
	}
	if annotated[0].Rating != 0 {
		t.Errorf("unrated movie should carry 0, got %v", annotated[0].Rating)
	}
	if annotated[1].Rating != 4.0 {
		t.Errorf("expected average 4.0, got %v", annotated[1].Rating)
	}
}

func TestSortByRatingTieBreaksOnViews(t *testing.T) {
	popular := models.RatedMovie{Movie: models.Movie{ID: uuid.New(), Title: "Popular", Views: 100}, Rating: 4.0}
	obscure := models.RatedMovie{Movie: models.Movie{ID: uuid.New(), Title: "Obscure", Views: 3}, Rating: 4.0}
	best := models.RatedMovie{Movie: models.Movie{ID: uuid.New(), Title: "Best", Views: 1}, Rating: 4.8}

	movies := []models.RatedMovie{obscure, popular, best}
	catalog.SortByRating(movies)

	got := []string{movies[0].Title, movies[1].Title, movies[2].Title}
	want := []string{"Best", "Popular", "Obscure"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestTopRatedExcludesUnratedAndCaps(t *testing.T) {
	rated1 := models.Movie{ID: uuid.New(), Title: "A"}
	rated2 := models.Movie{ID: uuid.New(), Title: "B"}
	rated3 := models.Movie{ID: uuid.New(), Title: "C"}
	unrated := models.Movie{ID: uuid.New(), Title: "Unrated"}

	var ratings []models.Rating
	ratings = append(ratings, ratingsFor(rated1.ID, 3)...)
	ratings = append(ratings, ratingsFor(rated2.ID, 5)...)
	ratings = append(ratings, ratingsFor(rated3.ID, 4)...)

	top := catalog.TopRated([]models.Movie{rated1, rated2, rated3, unrated}, ratings, 2)

	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if top[0].Title != "B" || top[1].Title != "C" {
		t.Errorf("expected [B C], got [%s %s]", top[0].Title, top[1].Title)
	}
	for _, m := range top {
		if m.TotalRatings < 1 {
			t.Errorf("top-rated entry %q has no ratings", m.Title)
		}
	}
}
