package service

import (
	"context"

	"github.com/forgo/savor/internal/model"
)

// AggregateRepository defines the interface for the derived-view queries
type AggregateRepository interface {
	TagCounts(ctx context.Context) ([]model.TagCount, error)
	TopRated(ctx context.Context, limit int) ([]*model.StoreWithRating, error)
}

// DefaultTopStoreLimit caps the top-rated view when callers pass no limit.
const DefaultTopStoreLimit = 5

// AggregateService exposes the read-only derived views over stores and
// reviews. Both views are computed by the storage engine's aggregation
// pipeline; nothing is materialized.
type AggregateService struct {
	aggregateRepo AggregateRepository
}

// AggregateServiceConfig holds configuration for the aggregate service
type AggregateServiceConfig struct {
	AggregateRepo AggregateRepository
}

// NewAggregateService creates a new aggregate service
func NewAggregateService(cfg AggregateServiceConfig) *AggregateService {
	return &AggregateService{aggregateRepo: cfg.AggregateRepo}
}

// TagCounts returns the tag-frequency table, ordered by count descending.
// Every (store, tag) pair counts once, duplicates included, so the counts
// sum to the total number of pairs. The order of tags with equal counts is
// unspecified.
func (s *AggregateService) TagCounts(ctx context.Context) ([]model.TagCount, error) {
	return s.aggregateRepo.TagCounts(ctx)
}

// TopRatedStores returns up to limit stores ordered by mean review rating
// descending. Stores with fewer than model.MinReviewsForRating reviews are
// excluded entirely. A non-positive limit falls back to
// DefaultTopStoreLimit.
func (s *AggregateService) TopRatedStores(ctx context.Context, limit int) ([]*model.StoreWithRating, error) {
	if limit <= 0 {
		limit = DefaultTopStoreLimit
	}
	return s.aggregateRepo.TopRated(ctx, limit)
}
