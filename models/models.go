package models

import (
	"time"
)

// Placeholder values substituted when the metadata service has nothing for a field.
const (
	PlaceholderPoster  = "https://via.placeholder.com/300x450?text=No+Image"
	PlaceholderUnknown = "Unknown"
	PlaceholderNA      = "N/A"
	PlaceholderPlot    = "No plot available"
	PlaceholderNoInfo  = "No information available"
)

// MovieRecord is the enriched description of a single title. Every field is
// always set, either from the metadata service or from a placeholder.
type MovieRecord struct {
	Title     string `json:"title"`
	Poster    string `json:"poster"`
	Year      string `json:"year"`
	Genre     string `json:"genre"`
	Director  string `json:"director"`
	Actors    string `json:"actors"`
	Plot      string `json:"plot"`
	Rating    string `json:"rating"`
	Runtime   string `json:"runtime"`
	Language  string `json:"language"`
	IMDbID    string `json:"imdbID"`
	Metascore string `json:"metascore"`
}

// PlaceholderRecord returns the record used when a title cannot be found.
func PlaceholderRecord(title string) MovieRecord {
	return MovieRecord{
		Title:     title,
		Poster:    PlaceholderPoster,
		Year:      PlaceholderUnknown,
		Genre:     PlaceholderUnknown,
		Director:  PlaceholderUnknown,
		Actors:    PlaceholderUnknown,
		Plot:      PlaceholderNoInfo,
		Rating:    PlaceholderNA,
		Runtime:   PlaceholderUnknown,
		Language:  PlaceholderUnknown,
		IMDbID:    "",
		Metascore: PlaceholderNA,
	}
}

type StreamingLink struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

// Card is a MovieRecord prepared for rendering.
type Card struct {
	Movie     MovieRecord     `json:"movie"`
	ShortPlot string          `json:"short_plot"`
	Links     []StreamingLink `json:"streaming_links"`
}

type InteractionType string

const (
	InteractionViewed    InteractionType = "viewed"
	InteractionLiked     InteractionType = "liked"
	InteractionWatchlist InteractionType = "watchlist"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionViewed, InteractionLiked, InteractionWatchlist:
		return true
	}
	return false
}

// InteractionEvent records a user engaging with a recommended movie. At most
// one row exists per (user, title, type).
type InteractionEvent struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	UserID          string          `gorm:"uniqueIndex:idx_interactions_unique" json:"user_id"`
	MovieTitle      string          `gorm:"uniqueIndex:idx_interactions_unique" json:"movie_title"`
	IMDbID          string          `gorm:"column:imdb_id" json:"imdb_id"`
	InteractionType InteractionType `gorm:"uniqueIndex:idx_interactions_unique" json:"interaction_type"`
	MoodContext     string          `json:"mood_context"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (InteractionEvent) TableName() string {
	return "user_movie_interactions"
}

type Feedback struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	UserID    *string   `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// Profile mirrors the provider-managed profiles table. It is only read.
type Profile struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
