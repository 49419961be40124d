package repository

import (
	"context"
	"errors"

	"github.com/forgo/savor/internal/database"
	"github.com/forgo/savor/internal/model"
)

// ReviewRepository handles review data access. The store core treats
// reviews as a read-mostly collaborator entity: Create exists for the
// review collaborator and the test fixtures, everything else is reads.
type ReviewRepository struct {
	db database.Database
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db database.Database) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		CREATE review CONTENT {
			store: type::record($store_id),
			author: type::record($author_id),
			text: IF $text IS NOT NULL THEN $text ELSE NONE END,
			rating: $rating,
			created: time::now()
		}
	`
	vars := map[string]interface{}{
		"store_id":  review.StoreID,
		"author_id": review.AuthorID,
		"text":      nilIfEmpty(review.Text),
		"rating":    review.Rating,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := parseReviewResult(result)
	if err != nil {
		return err
	}

	review.ID = created.ID
	review.Created = created.Created
	return nil
}

// ListByStore retrieves all reviews for a store, newest first.
func (r *ReviewRepository) ListByStore(ctx context.Context, storeID string) ([]*model.Review, error) {
	query := `
		SELECT * FROM review
		WHERE store = type::record($store_id)
		ORDER BY created DESC
	`
	vars := map[string]interface{}{"store_id": storeID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	reviews := make([]*model.Review, 0)
	for _, item := range extractQueryResults(result) {
		review, err := parseReviewResult(item)
		if err != nil {
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func parseReviewResult(result interface{}) (*model.Review, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	review := &model.Review{
		ID:       convertSurrealID(data["id"]),
		StoreID:  convertSurrealID(data["store"]),
		AuthorID: convertSurrealID(data["author"]),
		Text:     getString(data, "text"),
		Rating:   getInt(data, "rating"),
	}

	if t := getTime(data, "created"); t != nil {
		review.Created = *t
	}

	return review, nil
}
