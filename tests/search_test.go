package tests

/*
FEATURE: Store Discovery
DOMAIN: Store Directory

ACCEPTANCE CRITERIA:
===================

AC-SEARCH-001: Relevance-Ranked Text Search
  GIVEN stores with matching and non-matching names
  WHEN a text search runs
  THEN only matching stores are returned with positive relevance scores
  AND results are ordered by score descending
  AND at most five results are returned

AC-SEARCH-002: Empty Query Rejected
  GIVEN an empty or whitespace query
  WHEN a text search runs
  THEN it fails without touching the index

AC-SEARCH-003: Proximity Search
  GIVEN stores at known coordinates
  WHEN a nearby search runs from a reference point
  THEN stores are returned in ascending distance order
  AND at most the requested limit is returned
  AND each result carries the projection fields only

AC-SEARCH-004: Tag Listing
  GIVEN tagged stores
  WHEN a tag listing is requested
  THEN the tag counts and the stores carrying the tag are both returned
  AND an empty tag returns every tagged store
*/

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/savor/internal/repository"
	"github.com/forgo/savor/internal/service"
	"github.com/forgo/savor/internal/testing/fixtures"
	"github.com/forgo/savor/internal/testing/testdb"
)

func newDiscoveryService(tdb *testdb.TestDB) *service.DiscoveryService {
	storeRepo := repository.NewStoreRepository(tdb.DB)
	return service.NewDiscoveryService(service.DiscoveryServiceConfig{
		SearchRepo:    storeRepo,
		AggregateRepo: storeRepo,
	})
}

func TestSearch_TextRelevance(t *testing.T) {
	// AC-SEARCH-001: Relevance-Ranked Text Search
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	author := f.CreateAuthor(t)
	f.CreateStore(t, author, fixtures.WithName("Coffee Corner"))
	f.CreateStore(t, author, fixtures.WithName("Sushi Spot"))

	results, err := svc.SearchStores(ctx, "coffee")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		assert.Greater(t, r.Score, 0.0, "matches must carry a positive relevance score")
	}
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score,
			"results must be ordered by score descending")
	}
	assert.Equal(t, "Coffee Corner", results[0].Name)
}

func TestSearch_TextResultCap(t *testing.T) {
	// AC-SEARCH-001: at most five results
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	author := f.CreateAuthor(t)
	for i := 0; i < 7; i++ {
		f.CreateStore(t, author, func(o *fixtures.StoreOpts) {
			o.Description = "Famous for its noodle soup."
		})
	}

	results, err := svc.SearchStores(ctx, "noodle")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), service.SearchResultLimit)
	assert.Len(t, results, service.SearchResultLimit)
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	// AC-SEARCH-002: Empty Query Rejected
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	_, err := svc.SearchStores(ctx, "")
	assert.ErrorIs(t, err, service.ErrEmptyQuery)

	_, err = svc.SearchStores(ctx, "   ")
	assert.ErrorIs(t, err, service.ErrEmptyQuery)
}

func TestSearch_Nearby(t *testing.T) {
	// AC-SEARCH-003: Proximity Search
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	author := f.CreateAuthor(t)
	// Reference point: central London. Near, mid and far stores.
	near := f.CreateStore(t, author,
		fixtures.WithName("Near Store"),
		fixtures.WithLocation(-0.127, 51.507, "1 Strand, London"))
	mid := f.CreateStore(t, author,
		fixtures.WithName("Mid Store"),
		fixtures.WithLocation(-0.2, 51.55, "Camden, London"))
	far := f.CreateStore(t, author,
		fixtures.WithName("Far Store"),
		fixtures.WithLocation(2.35, 48.85, "Paris"))

	results, err := svc.NearbyStores(ctx, -0.128, 51.508, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, near.Slug, results[0].Slug)
	assert.Equal(t, mid.Slug, results[1].Slug)
	assert.Equal(t, far.Slug, results[2].Slug)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].DistanceMeters, results[i-1].DistanceMeters,
			"results must be ordered by ascending distance")
	}

	// Projection carries slug, name, description and location only.
	assert.NotEmpty(t, results[0].Name)
	require.NotNil(t, results[0].Location)
	assert.InDelta(t, -0.127, results[0].Location.Coordinates[0], 0.0001)
}

func TestSearch_NearbyLimit(t *testing.T) {
	// AC-SEARCH-003: limit caps the result set
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	author := f.CreateAuthor(t)
	for i := 0; i < 3; i++ {
		f.CreateStore(t, author,
			fixtures.WithLocation(-0.1+float64(i)*0.01, 51.5, "London"))
	}

	results, err := svc.NearbyStores(ctx, -0.1, 51.5, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_NearbyRejectsBadCoordinates(t *testing.T) {
	// Coordinates outside valid ranges are a validation failure.
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	_, err := svc.NearbyStores(ctx, -200, 95, 0)
	require.Error(t, err)
}

func TestSearch_TagListing(t *testing.T) {
	// AC-SEARCH-004: Tag Listing
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	author := f.CreateAuthor(t)
	vegan := f.CreateStore(t, author, fixtures.WithTags("vegan", "coffee"))
	f.CreateStore(t, author, fixtures.WithTags("coffee"))

	listing, err := svc.ListByTag(ctx, "vegan")
	require.NoError(t, err)

	require.Len(t, listing.Stores, 1)
	assert.Equal(t, vegan.ID, listing.Stores[0].ID)

	byTag := make(map[string]int)
	for _, tc := range listing.Tags {
		byTag[tc.Tag] = tc.Count
	}
	assert.Equal(t, 1, byTag["vegan"])
	assert.Equal(t, 2, byTag["coffee"])
}

func TestSearch_TagListingEmptyTag(t *testing.T) {
	// AC-SEARCH-004: empty tag returns every tagged store
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newDiscoveryService(tdb)
	ctx := context.Background()

	author := f.CreateAuthor(t)
	f.CreateStore(t, author, fixtures.WithTags("vegan"))
	f.CreateStore(t, author, fixtures.WithTags("coffee"))

	listing, err := svc.ListByTag(ctx, "")
	require.NoError(t, err)
	assert.Len(t, listing.Stores, 2)
}
