package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/savor/internal/database"
	"github.com/forgo/savor/internal/model"
	"github.com/forgo/savor/internal/repository"
	"github.com/forgo/savor/internal/service"
)

// Factory creates test entities in the database
type Factory struct {
	db      database.Database
	users   *repository.UserRepository
	reviews *repository.ReviewRepository
	stores  *service.StoreService
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		db:      db,
		users:   repository.NewUserRepository(db),
		reviews: repository.NewReviewRepository(db),
		stores: service.NewStoreService(service.StoreServiceConfig{
			StoreRepo: repository.NewStoreRepository(db),
		}),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// PhotoName returns a unique uploaded-photo filename, mimicking what the
// upload collaborator stores on the entity.
func PhotoName() string {
	return uuid.NewString() + ".jpeg"
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel
	return c
}

// ============================================================================
// Author Fixtures
// ============================================================================

// AuthorOpts customizes author creation
type AuthorOpts struct {
	Name     string
	Email    string
	Password string
}

// CreateAuthor creates a store author account with optional customizations
func (f *Factory) CreateAuthor(t *testing.T, opts ...func(*AuthorOpts)) *model.User {
	t.Helper()

	o := &AuthorOpts{
		Name:     fmt.Sprintf("author_%s", randomID()),
		Email:    fmt.Sprintf("author_%s@test.local", randomID()),
		Password: "testpass123",
	}
	for _, fn := range opts {
		fn(o)
	}

	user := &model.User{Name: o.Name, Email: o.Email}
	if err := f.users.Create(ctx(), user, o.Password); err != nil {
		t.Fatalf("fixtures: failed to create author: %v", err)
	}
	return user
}

// ============================================================================
// Store Fixtures
// ============================================================================

// StoreOpts customizes store creation
type StoreOpts struct {
	Name        string
	Description string
	Tags        []string
	Location    *model.Location
	Photo       *string
}

// WithLocation places the store at the given coordinates
func WithLocation(lng, lat float64, address string) func(*StoreOpts) {
	return func(o *StoreOpts) {
		o.Location = &model.Location{
			Type:        model.LocationTypePoint,
			Coordinates: []float64{lng, lat},
			Address:     address,
		}
	}
}

// WithTags sets the store's tags
func WithTags(tags ...string) func(*StoreOpts) {
	return func(o *StoreOpts) { o.Tags = tags }
}

// WithName sets the store's display name
func WithName(name string) func(*StoreOpts) {
	return func(o *StoreOpts) { o.Name = name }
}

// CreateStore creates a store owned by author, going through the full write
// pipeline so the slug is derived and allocated exactly as in production.
func (f *Factory) CreateStore(t *testing.T, author *model.User, opts ...func(*StoreOpts)) *model.Store {
	t.Helper()

	photo := PhotoName()
	o := &StoreOpts{
		Name:        fmt.Sprintf("Store %s", randomID()),
		Description: "A cozy neighborhood spot.",
		Tags:        []string{"coffee"},
		Photo:       &photo,
	}
	for _, fn := range opts {
		fn(o)
	}

	store, err := f.stores.Create(ctx(), author.ID, model.CreateStoreRequest{
		Name:        o.Name,
		Description: o.Description,
		Tags:        o.Tags,
		Location:    o.Location,
		Photo:       o.Photo,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create store %q: %v", o.Name, err)
	}
	return store
}

// ============================================================================
// Review Fixtures
// ============================================================================

// CreateReview creates a review of store by author with the given rating
func (f *Factory) CreateReview(t *testing.T, store *model.Store, author *model.User, rating int) *model.Review {
	t.Helper()

	review := &model.Review{
		StoreID:  store.ID,
		AuthorID: author.ID,
		Text:     fmt.Sprintf("Review %s", randomID()),
		Rating:   rating,
	}
	if err := f.reviews.Create(ctx(), review); err != nil {
		t.Fatalf("fixtures: failed to create review: %v", err)
	}
	return review
}
