package dto

import "time"

// BookmarkSummary is the listing representation of a saved item.
type BookmarkSummary struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	Favourited bool      `json:"favourited"`
	Archived   bool      `json:"archived"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
