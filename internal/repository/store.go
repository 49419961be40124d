package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgo/savor/internal/database"
	"github.com/forgo/savor/internal/model"
)

// StoreRepository handles store data access, including the aggregation and
// search queries executed by SurrealDB.
type StoreRepository struct {
	db database.Database
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db database.Database) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create persists a new store. The caller (the store service) has already
// validated the draft and resolved its slug. The UNIQUE index on slug is
// the last line of defense against concurrent allocations of the same
// token; violations surface as database.ErrDuplicate.
func (r *StoreRepository) Create(ctx context.Context, store *model.Store) error {
	query := `
		CREATE store CONTENT {
			name: $name,
			slug: $slug,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			tags: $tags,
			created: IF $created IS NOT NULL THEN $created ELSE time::now() END,
			location: IF $location IS NOT NULL THEN $location ELSE NONE END,
			photo: IF $photo IS NOT NULL THEN $photo ELSE NONE END,
			author: type::record($author_id)
		}
	`

	vars := map[string]interface{}{
		"name":        store.Name,
		"slug":        store.Slug,
		"description": nilIfEmpty(store.Description),
		"tags":        tagsOrEmpty(store.Tags),
		"created":     nilIfZeroTime(store.Created),
		"location":    locationVar(store.Location),
		"photo":       store.Photo,
		"author_id":   store.AuthorID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: slug %q already exists", database.ErrDuplicate, store.Slug)
		}
		return err
	}

	created, err := parseStoreResult(result)
	if err != nil {
		return err
	}

	store.ID = created.ID
	store.Created = created.Created
	return nil
}

// GetByID retrieves a store by ID. Returns (nil, nil) when absent.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*model.Store, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseStoreResult(result)
}

// GetBySlug retrieves a store by its slug, case-insensitively.
// Returns (nil, nil) when absent. Reviews are NOT joined; use
// GetBySlugWithReviews for the detail view.
func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*model.Store, error) {
	query := `
		SELECT * FROM store
		WHERE string::lowercase(slug) = string::lowercase($slug)
		LIMIT 1
	`
	vars := map[string]interface{}{"slug": slug}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseStoreResult(result)
}

// GetBySlugWithReviews retrieves a store by slug with its reviews eagerly
// joined, newest first. This is the detail-view read path: the join is part
// of the contract so callers never issue a second query.
func (r *StoreRepository) GetBySlugWithReviews(ctx context.Context, slug string) (*model.Store, error) {
	query := `
		SELECT *,
			(SELECT * FROM review WHERE store = $parent.id ORDER BY created DESC) AS reviews
		FROM store
		WHERE string::lowercase(slug) = string::lowercase($slug)
		LIMIT 1
	`
	vars := map[string]interface{}{"slug": slug}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseStoreResult(result)
}

// Update writes the mutable fields of a store and returns the post-write
// representation. The author field is immutable and never part of the SET
// clause. Returns (nil, nil) when the record does not exist.
func (r *StoreRepository) Update(ctx context.Context, store *model.Store) (*model.Store, error) {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			slug = $slug,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			tags = $tags,
			location = IF $location IS NOT NULL THEN $location ELSE NONE END,
			photo = IF $photo IS NOT NULL THEN $photo ELSE NONE END
		RETURN AFTER
	`

	vars := map[string]interface{}{
		"id":          store.ID,
		"name":        store.Name,
		"slug":        store.Slug,
		"description": nilIfEmpty(store.Description),
		"tags":        tagsOrEmpty(store.Tags),
		"location":    locationVar(store.Location),
		"photo":       store.Photo,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: slug %q already exists", database.ErrDuplicate, store.Slug)
		}
		return nil, err
	}

	return parseStoreResult(result)
}

// List retrieves all stores, newest first.
func (r *StoreRepository) List(ctx context.Context) ([]*model.Store, error) {
	query := `SELECT * FROM store ORDER BY created DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return parseStoresResult(result)
}

// CountSlugMatches counts existing slugs matching the token verbatim or
// with a numeric suffix ("token" or "token-<n>"), case-insensitively and
// anchored at both ends. The allocator derives the next suffix from this
// count.
func (r *StoreRepository) CountSlugMatches(ctx context.Context, token string) (int, error) {
	query := `
		SELECT count() AS count FROM store
		WHERE string::matches(string::lowercase(slug), $pattern)
		GROUP ALL
	`
	// Tokens are [a-z0-9-] by construction, so no regex escaping is needed.
	vars := map[string]interface{}{
		"pattern": fmt.Sprintf("^%s(-[0-9]+)?$", token),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), nil
	}
	return 0, nil
}

// TagCounts flattens every store's tags into (store, tag) pairs, groups by
// tag and counts occurrences, ordered by count descending. The order of
// tags with equal counts is unspecified.
func (r *StoreRepository) TagCounts(ctx context.Context) ([]model.TagCount, error) {
	query := `
		SELECT tag, count() AS count FROM (
			SELECT tags AS tag FROM store SPLIT tag
		)
		GROUP BY tag
		ORDER BY count DESC
	`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	counts := make([]model.TagCount, 0)
	for _, item := range extractQueryResults(result) {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		counts = append(counts, model.TagCount{
			Tag:   getString(data, "tag"),
			Count: getInt(data, "count"),
		})
	}
	return counts, nil
}

// TopRated joins each store with its reviews, keeps only stores with at
// least model.MinReviewsForRating reviews, and returns up to limit results
// ordered by mean rating descending. Stores below the threshold are
// excluded entirely rather than reported with a zero average.
func (r *StoreRepository) TopRated(ctx context.Context, limit int) ([]*model.StoreWithRating, error) {
	query := `
		SELECT id, name, slug, photo,
			count(reviews) AS review_count,
			math::mean(reviews.rating) AS average_rating
		FROM (
			SELECT *, (SELECT rating FROM review WHERE store = $parent.id) AS reviews
			FROM store
		)
		WHERE count(reviews) >= $min_reviews
		ORDER BY average_rating DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"min_reviews": model.MinReviewsForRating,
		"limit":       limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rated := make([]*model.StoreWithRating, 0)
	for _, item := range extractQueryResults(result) {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rated = append(rated, &model.StoreWithRating{
			ID:            convertSurrealID(data["id"]),
			Name:          getString(data, "name"),
			Slug:          getString(data, "slug"),
			Photo:         getStringPtr(data, "photo"),
			ReviewCount:   getInt(data, "review_count"),
			AverageRating: getFloat(data, "average_rating"),
		})
	}
	return rated, nil
}

// SearchText runs a relevance-ranked full-text search over the name and
// description SEARCH indexes. Both indexes share one analyzer, so the two
// scores are weighted equally; the combined score orders the results.
func (r *StoreRepository) SearchText(ctx context.Context, q string, limit int) ([]*model.ScoredStore, error) {
	query := `
		SELECT *, search::score(0) + search::score(1) AS score FROM store
		WHERE name @0@ $query OR description @1@ $query
		ORDER BY score DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"query": q,
		"limit": limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	scored := make([]*model.ScoredStore, 0)
	for _, item := range extractQueryResults(result) {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		store, err := parseStoreResult(data)
		if err != nil {
			continue
		}
		scored = append(scored, &model.ScoredStore{
			Store: *store,
			Score: getFloat(data, "score"),
		})
	}
	return scored, nil
}

// Nearby returns the stores closest to the given point, ascending by
// distance, projected down to slug/name/description/location. No maximum
// distance is enforced; a store on the other side of the planet still
// ranks, just last.
func (r *StoreRepository) Nearby(ctx context.Context, lng, lat float64, limit int) ([]*model.NearbyStore, error) {
	query := `
		SELECT slug, name, description, location,
			geo::distance(type::point(location.coordinates), type::point($center)) AS distance
		FROM store
		WHERE location.coordinates IS NOT NONE
		ORDER BY distance ASC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"center": []float64{lng, lat},
		"limit":  limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	nearby := make([]*model.NearbyStore, 0)
	for _, item := range extractQueryResults(result) {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		nearby = append(nearby, &model.NearbyStore{
			Slug:           getString(data, "slug"),
			Name:           getString(data, "name"),
			Description:    getString(data, "description"),
			Location:       parseLocation(data["location"]),
			DistanceMeters: getFloat(data, "distance"),
		})
	}
	return nearby, nil
}

// ListByTag retrieves stores filtered by tag, newest first. An empty tag
// matches every store carrying at least one tag; a non-empty tag matches by
// exact, case-sensitive containment.
func (r *StoreRepository) ListByTag(ctx context.Context, tag string) ([]*model.Store, error) {
	var query string
	vars := map[string]interface{}{}

	if tag == "" {
		query = `
			SELECT * FROM store
			WHERE array::len(tags) > 0
			ORDER BY created DESC
		`
	} else {
		query = `
			SELECT * FROM store
			WHERE tags CONTAINS $tag
			ORDER BY created DESC
		`
		vars["tag"] = tag
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseStoresResult(result)
}

// Parsing helpers

func parseStoreResult(result interface{}) (*model.Store, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	store := &model.Store{
		ID:          convertSurrealID(data["id"]),
		Name:        getString(data, "name"),
		Slug:        getString(data, "slug"),
		Description: getString(data, "description"),
		Tags:        getStringSlice(data, "tags"),
		Location:    parseLocation(data["location"]),
		Photo:       getStringPtr(data, "photo"),
		AuthorID:    convertSurrealID(data["author"]),
	}

	if t := getTime(data, "created"); t != nil {
		store.Created = *t
	}

	if reviews, ok := data["reviews"].([]interface{}); ok {
		store.Reviews = make([]*model.Review, 0, len(reviews))
		for _, item := range reviews {
			review, err := parseReviewResult(item)
			if err != nil {
				continue
			}
			store.Reviews = append(store.Reviews, review)
		}
	}

	return store, nil
}

func parseStoresResult(result []interface{}) ([]*model.Store, error) {
	stores := make([]*model.Store, 0)
	for _, item := range extractQueryResults(result) {
		store, err := parseStoreResult(item)
		if err != nil {
			continue
		}
		stores = append(stores, store)
	}
	return stores, nil
}

func parseLocation(v interface{}) *model.Location {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return &model.Location{
		Type:        getString(m, "type"),
		Coordinates: getFloatSlice(m, "coordinates"),
		Address:     getString(m, "address"),
	}
}

func locationVar(loc *model.Location) interface{} {
	if loc == nil {
		return nil
	}
	return map[string]interface{}{
		"type":        loc.Type,
		"coordinates": loc.Coordinates,
		"address":     loc.Address,
	}
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nilIfZeroTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
