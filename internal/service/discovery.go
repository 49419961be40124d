package service

import (
	"context"
	"strings"

	"github.com/forgo/savor/internal/model"
)

// SearchRepository defines the interface for the index-backed read queries
type SearchRepository interface {
	SearchText(ctx context.Context, query string, limit int) ([]*model.ScoredStore, error)
	Nearby(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error)
	ListByTag(ctx context.Context, tag string) ([]*model.Store, error)
}

// Result limits for the gateway's three read operations.
const (
	SearchResultLimit  = 5
	DefaultNearbyLimit = 10
)

// DiscoveryService is the read gateway over the store indexes: ranked
// full-text search, geospatial proximity, and tag-filtered listing.
type DiscoveryService struct {
	searchRepo    SearchRepository
	aggregateRepo AggregateRepository
}

// DiscoveryServiceConfig holds configuration for the discovery service
type DiscoveryServiceConfig struct {
	SearchRepo    SearchRepository
	AggregateRepo AggregateRepository
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(cfg DiscoveryServiceConfig) *DiscoveryService {
	return &DiscoveryService{
		searchRepo:    cfg.SearchRepo,
		aggregateRepo: cfg.AggregateRepo,
	}
}

// SearchStores runs a relevance-ranked full-text search over store names
// and descriptions, capped at SearchResultLimit results. An empty or
// whitespace-only query is a caller error, never an implicit match-all.
func (s *DiscoveryService) SearchStores(ctx context.Context, query string) ([]*model.ScoredStore, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.searchRepo.SearchText(ctx, query, SearchResultLimit)
}

// NearbyStores returns the limit stores closest to (lng, lat), ascending
// by distance, projected to slug/name/description/location. A non-positive
// limit falls back to DefaultNearbyLimit. No maximum distance is enforced.
func (s *DiscoveryService) NearbyStores(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error) {
	var fieldErrs []model.FieldError
	if lng < -180 || lng > 180 {
		fieldErrs = append(fieldErrs, model.FieldError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if lat < -90 || lat > 90 {
		fieldErrs = append(fieldErrs, model.FieldError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if err := model.NewValidationError(fieldErrs); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	return s.searchRepo.Nearby(ctx, lng, lat, limit)
}

// TagListing is what the tag page renders: the full tag-frequency table
// and the stores matching the selected tag, side by side.
type TagListing struct {
	Tags   []model.TagCount `json:"tags"`
	Stores []*model.Store   `json:"stores"`
}

// ListByTag returns the tag-frequency table together with the stores
// matching tag. An empty tag matches every store that carries at least one
// tag; a non-empty tag matches by exact, case-sensitive containment.
func (s *DiscoveryService) ListByTag(ctx context.Context, tag string) (*TagListing, error) {
	tags, err := s.aggregateRepo.TagCounts(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := s.searchRepo.ListByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return &TagListing{Tags: tags, Stores: stores}, nil
}
