package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a catalog member. Identity itself lives with the external
// provider — we only keep the provider's stable subject id so callers
// can be mapped back to their row on every request.
//
// Why Subject and not the provider's email?
//   - Emails change; the subject id is stable for the account's lifetime.
//   - The users table has a unique index on subject, and every
//     authenticated operation resolves subject → user through it.
type User struct {
	ID       uuid.UUID `json:"id"`
	Subject  string    `json:"-"`
	Email    string    `json:"email,omitempty"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
	JoinedAt time.Time `json:"joined_at"`
}

// PublicProfile strips fields that must not leak to other users.
func (u *User) PublicProfile() *User {
	pub := *u
	pub.Email = ""
	return &pub
}

// Movie is a catalog entry. Director, genres, cast, release year and the
// image reference are all optional — a bare title+description entry is valid.
//
// Average rating is deliberately NOT a field here: it is derived from the
// ratings table on every read. A stored copy would go stale the moment
// anyone rates.
type Movie struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Director       string     `json:"director,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	Cast           []string   `json:"cast,omitempty"`
	ReleaseYear    int        `json:"release_year,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	ImageStorageID string     `json:"image_storage_id,omitempty"`
	Views          int64      `json:"views"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// RatedMovie is a movie annotated with its derived average rating.
// This is what listing, search and detail endpoints return.
type RatedMovie struct {
	Movie
	Rating float64 `json:"rating"`
}

// Comment belongs to exactly one movie and one author.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	MovieID   uuid.UUID  `json:"movie_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Content   string     `json:"content"`
	Likes     int64      `json:"likes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CommentWithAuthor joins a comment with its author's public record.
// Author is nil when the author's account has since been deleted.
type CommentWithAuthor struct {
	Comment
	Author *User `json:"user"`
}

// CommentWithMovie joins a comment with the movie it was left on.
type CommentWithMovie struct {
	Comment
	Movie *Movie `json:"movie,omitempty"`
}

// Rating is one user's score for one movie. At most one row exists per
// (MovieID, UserID) pair; a second rating from the same user overwrites
// the first.
type Rating struct {
	ID        uuid.UUID  `json:"id"`
	MovieID   uuid.UUID  `json:"movie_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Score     int        `json:"score"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RatingWithMovie joins a rating with its movie, for "my ratings" views.
type RatingWithMovie struct {
	Rating
	Movie *Movie `json:"movie"`
}

// RatingSummary is the derived aggregate for one movie.
// {0, 0} for a movie nobody has rated yet — that's a valid state,
// not an error.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// TopMovie is a rated movie plus its creator, as returned by the
// top-rated listing.
type TopMovie struct {
	Movie
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
	Creator       *User   `json:"creator,omitempty"`
}

// UserProfile is a user annotated with their contribution summary:
// how many movies they own, and their five most-viewed ones.
type UserProfile struct {
	User
	TotalMovies int     `json:"total_movies"`
	TopMovies   []Movie `json:"top_movies"`
}
