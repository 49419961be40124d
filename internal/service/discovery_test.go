package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forgo/savor/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockSearchRepo struct {
	searchTextFunc func(ctx context.Context, query string, limit int) ([]*model.ScoredStore, error)
	nearbyFunc     func(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error)
	listByTagFunc  func(ctx context.Context, tag string) ([]*model.Store, error)
}

func (m *mockSearchRepo) SearchText(ctx context.Context, query string, limit int) ([]*model.ScoredStore, error) {
	if m.searchTextFunc != nil {
		return m.searchTextFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockSearchRepo) Nearby(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error) {
	if m.nearbyFunc != nil {
		return m.nearbyFunc(ctx, lng, lat, limit)
	}
	return nil, nil
}

func (m *mockSearchRepo) ListByTag(ctx context.Context, tag string) ([]*model.Store, error) {
	if m.listByTagFunc != nil {
		return m.listByTagFunc(ctx, tag)
	}
	return nil, nil
}

type mockAggregateRepo struct {
	tagCountsFunc func(ctx context.Context) ([]model.TagCount, error)
	topRatedFunc  func(ctx context.Context, limit int) ([]*model.StoreWithRating, error)
}

func (m *mockAggregateRepo) TagCounts(ctx context.Context) ([]model.TagCount, error) {
	if m.tagCountsFunc != nil {
		return m.tagCountsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAggregateRepo) TopRated(ctx context.Context, limit int) ([]*model.StoreWithRating, error) {
	if m.topRatedFunc != nil {
		return m.topRatedFunc(ctx, limit)
	}
	return nil, nil
}

func newDiscoveryService(search *mockSearchRepo, agg *mockAggregateRepo) *DiscoveryService {
	return NewDiscoveryService(DiscoveryServiceConfig{
		SearchRepo:    search,
		AggregateRepo: agg,
	})
}

// ============================================================================
// SearchStores Tests
// ============================================================================

func TestDiscoveryService_SearchStores_EmptyQueryRejected(t *testing.T) {
	svc := newDiscoveryService(&mockSearchRepo{}, &mockAggregateRepo{})

	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := svc.SearchStores(context.Background(), q); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
}

func TestDiscoveryService_SearchStores_CapsAtFive(t *testing.T) {
	var gotLimit int
	search := &mockSearchRepo{
		searchTextFunc: func(ctx context.Context, query string, limit int) ([]*model.ScoredStore, error) {
			gotLimit = limit
			return []*model.ScoredStore{}, nil
		},
	}
	svc := newDiscoveryService(search, &mockAggregateRepo{})

	if _, err := svc.SearchStores(context.Background(), "shack"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != SearchResultLimit {
		t.Errorf("expected limit %d, got %d", SearchResultLimit, gotLimit)
	}
}

func TestDiscoveryService_SearchStores_TrimsQuery(t *testing.T) {
	var gotQuery string
	search := &mockSearchRepo{
		searchTextFunc: func(ctx context.Context, query string, limit int) ([]*model.ScoredStore, error) {
			gotQuery = query
			return nil, nil
		},
	}
	svc := newDiscoveryService(search, &mockAggregateRepo{})

	if _, err := svc.SearchStores(context.Background(), "  shack  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "shack" {
		t.Errorf("expected trimmed query, got %q", gotQuery)
	}
}

// ============================================================================
// NearbyStores Tests
// ============================================================================

func TestDiscoveryService_NearbyStores_DefaultsLimit(t *testing.T) {
	var gotLimit int
	search := &mockSearchRepo{
		nearbyFunc: func(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newDiscoveryService(search, &mockAggregateRepo{})

	if _, err := svc.NearbyStores(context.Background(), -122.41, 37.77, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != DefaultNearbyLimit {
		t.Errorf("expected default limit %d, got %d", DefaultNearbyLimit, gotLimit)
	}
}

func TestDiscoveryService_NearbyStores_HonorsExplicitLimit(t *testing.T) {
	var gotLimit int
	search := &mockSearchRepo{
		nearbyFunc: func(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newDiscoveryService(search, &mockAggregateRepo{})

	if _, err := svc.NearbyStores(context.Background(), -122.41, 37.77, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 3 {
		t.Errorf("expected limit 3, got %d", gotLimit)
	}
}

func TestDiscoveryService_NearbyStores_RejectsOutOfRangeCoordinates(t *testing.T) {
	svc := newDiscoveryService(&mockSearchRepo{}, &mockAggregateRepo{})

	_, err := svc.NearbyStores(context.Background(), -200, 95, 0)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected longitude and latitude errors, got %v", verr.Errors)
	}
}

// ============================================================================
// ListByTag Tests
// ============================================================================

func TestDiscoveryService_ListByTag_ReturnsBothViews(t *testing.T) {
	search := &mockSearchRepo{
		listByTagFunc: func(ctx context.Context, tag string) ([]*model.Store, error) {
			if tag != "burgers" {
				t.Errorf("expected tag burgers, got %q", tag)
			}
			return []*model.Store{{ID: "store:1", Slug: "burger-shack"}}, nil
		},
	}
	agg := &mockAggregateRepo{
		tagCountsFunc: func(ctx context.Context) ([]model.TagCount, error) {
			return []model.TagCount{{Tag: "burgers", Count: 2}, {Tag: "cheap", Count: 1}}, nil
		},
	}
	svc := newDiscoveryService(search, agg)

	listing, err := svc.ListByTag(context.Background(), "burgers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listing.Tags) != 2 {
		t.Errorf("expected full tag table, got %v", listing.Tags)
	}
	if len(listing.Stores) != 1 {
		t.Errorf("expected one matching store, got %d", len(listing.Stores))
	}
}

func TestDiscoveryService_ListByTag_EmptyTagPassedThrough(t *testing.T) {
	var gotTag string
	called := false
	search := &mockSearchRepo{
		listByTagFunc: func(ctx context.Context, tag string) ([]*model.Store, error) {
			called = true
			gotTag = tag
			return nil, nil
		},
	}
	svc := newDiscoveryService(search, &mockAggregateRepo{})

	if _, err := svc.ListByTag(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || gotTag != "" {
		t.Errorf("expected empty tag passed through, called=%v tag=%q", called, gotTag)
	}
}
