package model

import "time"

// Review is feedback left on a store. The store core only ever reads
// reviews: for the eager-joined detail view and for the rating
// aggregation. Creation and moderation belong to the review collaborator.
type Review struct {
	ID       string    `json:"id"`
	StoreID  string    `json:"store_id"`
	AuthorID string    `json:"author_id"`
	Text     string    `json:"text,omitempty"`
	Rating   int       `json:"rating"`
	Created  time.Time `json:"created"`
}

// Rating bounds, matching the 1-5 star widget.
const (
	MinRating = 1
	MaxRating = 5
)
