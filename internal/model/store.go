package model

import (
	"strings"
	"time"
)

// GeoJSON geometry tag for point locations. Every persisted location carries
// this type regardless of what the caller supplied.
const LocationTypePoint = "Point"

// MinReviewsForRating is the quality gate for the top-rated aggregation:
// stores with fewer reviews are excluded entirely, not averaged over a
// tiny sample.
const MinReviewsForRating = 2

// Location is a store's physical placement: a GeoJSON-style point plus a
// human-readable address. Coordinates are ordered (longitude, latitude).
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}

// Longitude returns the first coordinate. Valid only after validation.
func (l *Location) Longitude() float64 { return l.Coordinates[0] }

// Latitude returns the second coordinate. Valid only after validation.
func (l *Location) Latitude() float64 { return l.Coordinates[1] }

// Store is the central directory entity.
//
// Slug is derived from Name by the store service and is unique across all
// stores; it is never supplied by callers. Reviews is populated only by the
// explicit eager-join read path (GetBySlugWithReviews) and is nil on every
// other read.
type Store struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Created     time.Time `json:"created"`
	Location    *Location `json:"location,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
	AuthorID    string    `json:"author_id"`
	Reviews     []*Review `json:"reviews,omitempty"`
}

// TagCount is one row of the tag-frequency aggregation.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// StoreWithRating is the top-rated aggregation projection: the display
// fields of a store joined with its review statistics.
type StoreWithRating struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Photo         *string `json:"photo,omitempty"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// ScoredStore pairs a store with its full-text relevance score.
type ScoredStore struct {
	Store
	Score float64 `json:"score"`
}

// NearbyStore is the proximity-search projection. Only slug, name,
// description and location are carried, plus the computed distance from
// the query point in meters.
type NearbyStore struct {
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Location       *Location `json:"location,omitempty"`
	DistanceMeters float64   `json:"distance_meters"`
}

// CreateStoreRequest carries caller-supplied fields for a new store.
// Slug and Created are never accepted from callers; the author comes from
// the authentication collaborator, not the request body.
type CreateStoreRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
}

// Trim strips surrounding whitespace from all string fields in place.
func (r *CreateStoreRequest) Trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Location != nil {
		r.Location.Address = strings.TrimSpace(r.Location.Address)
	}
}

// Validate checks required fields and invariants, returning one FieldError
// per offending field. Call Trim first.
func (r *CreateStoreRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "store name is required"})
	}
	errs = append(errs, validateLocation(r.Location)...)
	return errs
}

// UpdateStoreRequest is a partial update: nil pointers leave the current
// value untouched. Tags replaces the whole list when non-nil. The author
// is immutable and has no field here.
type UpdateStoreRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
}

// Trim strips surrounding whitespace from all supplied string fields.
func (r *UpdateStoreRequest) Trim() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
	}
	if r.Location != nil {
		r.Location.Address = strings.TrimSpace(r.Location.Address)
	}
}

// Validate checks the supplied fields. A supplied-but-empty name is
// rejected; an absent name is fine.
func (r *UpdateStoreRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name != nil && *r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "store name cannot be empty"})
	}
	errs = append(errs, validateLocation(r.Location)...)
	return errs
}

func validateLocation(loc *Location) []FieldError {
	if loc == nil {
		return nil
	}
	var errs []FieldError
	if len(loc.Coordinates) != 2 {
		errs = append(errs, FieldError{Field: "location.coordinates", Message: "coordinates must be a (longitude, latitude) pair"})
	} else {
		if lng := loc.Coordinates[0]; lng < -180 || lng > 180 {
			errs = append(errs, FieldError{Field: "location.coordinates", Message: "longitude must be between -180 and 180"})
		}
		if lat := loc.Coordinates[1]; lat < -90 || lat > 90 {
			errs = append(errs, FieldError{Field: "location.coordinates", Message: "latitude must be between -90 and 90"})
		}
	}
	if loc.Address == "" {
		errs = append(errs, FieldError{Field: "location.address", Message: "address is required when a location is supplied"})
	}
	return errs
}
