package domain

import "time"

// Bookmark is a saved item owned by a single account. This service
// only reads bookmarks; writes belong to the ingestion pipeline.
type Bookmark struct {
	ID         string
	OwnerID    string
	URL        string
	Title      string
	Summary    string
	Favourited bool
	Archived   bool
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
