package catalog

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/reelbase/reelbase/internal/models"
)

// Average ratings are always derived from the rating rows at read time.
// Nothing stores an aggregate, so nothing can go stale — the cost is one
// pass over the ratings per read, which the listing endpoints accept.

// ratingTally accumulates one movie's scores during a grouping pass.
type ratingTally struct {
	sum   int
	count int
}

func (t ratingTally) average() float64 {
	if t.count == 0 {
		return 0
	}
	return roundToTenth(float64(t.sum) / float64(t.count))
}

// roundToTenth rounds to one decimal place, the precision every rating
// display uses.
func roundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

// tallyByMovie groups ratings by movie in a single pass.
func tallyByMovie(ratings []models.Rating) map[uuid.UUID]ratingTally {
	tallies := make(map[uuid.UUID]ratingTally)
	for _, r := range ratings {
		t := tallies[r.MovieID]
		t.sum += r.Score
		t.count++
		tallies[r.MovieID] = t
	}
	return tallies
}

// Summarize computes the aggregate for one movie's rating set.
// {0, 0} for an empty set — an unrated movie is a normal state.
func Summarize(ratings []models.Rating) models.RatingSummary {
	var t ratingTally
	for _, r := range ratings {
		t.sum += r.Score
		t.count++
	}
	return models.RatingSummary{
		AverageRating: t.average(),
		TotalRatings:  t.count,
	}
}

// AnnotateMovies attaches each movie's derived average to it, preserving
// the input order. Movies with no ratings get 0.
func AnnotateMovies(movies []models.Movie, ratings []models.Rating) []models.RatedMovie {
	tallies := tallyByMovie(ratings)

	annotated := make([]models.RatedMovie, 0, len(movies))
	for _, m := range movies {
		annotated = append(annotated, models.RatedMovie{
			Movie:  m,
			Rating: tallies[m.ID].average(),
		})
	}
	return annotated
}

// SortByRating orders movies by average rating descending, breaking ties
// by view count descending. Stable, so equal movies keep their incoming
// (newest-first) order.
func SortByRating(movies []models.RatedMovie) {
	sort.SliceStable(movies, func(i, j int) bool {
		if movies[i].Rating != movies[j].Rating {
			return movies[i].Rating > movies[j].Rating
		}
		return movies[i].Views > movies[j].Views
	})
}

// TopRated builds the ranked top-N view: unrated movies are excluded,
// the rest sort by average descending.
func TopRated(movies []models.Movie, ratings []models.Rating, limit int) []models.TopMovie {
	tallies := tallyByMovie(ratings)

	ranked := make([]models.TopMovie, 0)
	for _, m := range movies {
		t := tallies[m.ID]
		if t.count == 0 {
			continue
		}
		ranked = append(ranked, models.TopMovie{
			Movie:         m,
			AverageRating: t.average(),
			TotalRatings:  t.count,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageRating > ranked[j].AverageRating
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// dedupeMovies keeps the first occurrence of each id. Search merges the
// per-field result lists director-first, so a movie matching several
// fields ranks where its earliest field match placed it.
func dedupeMovies(lists ...[]models.Movie) []models.Movie {
	seen := make(map[uuid.UUID]bool)
	merged := make([]models.Movie, 0)
	for _, list := range lists {
		for _, m := range list {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}
	return merged
}

// topMoviesByViews returns a user's most-viewed movies, up to n.
func topMoviesByViews(movies []models.Movie, n int) []models.Movie {
	sorted := make([]models.Movie, len(movies))
	copy(sorted, movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
