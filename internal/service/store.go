package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/savor/internal/database"
	"github.com/forgo/savor/internal/model"
	"github.com/forgo/savor/pkg/slug"
)

// StoreRepository defines the interface for store storage
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id string) (*model.Store, error)
	GetBySlug(ctx context.Context, slug string) (*model.Store, error)
	GetBySlugWithReviews(ctx context.Context, slug string) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) (*model.Store, error)
	List(ctx context.Context) ([]*model.Store, error)
	CountSlugMatches(ctx context.Context, token string) (int, error)
}

// StoreService owns the store write pipeline and the simple read paths.
//
// Create and Update run the same fixed stages in order: validate the
// request, normalize the location type, allocate a slug when the name is
// new or changed, then write. There are no storage-layer hooks; every
// stage is explicit here.
type StoreService struct {
	storeRepo StoreRepository
}

// StoreServiceConfig holds configuration for the store service
type StoreServiceConfig struct {
	StoreRepo StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(cfg StoreServiceConfig) *StoreService {
	return &StoreService{storeRepo: cfg.StoreRepo}
}

// Create registers a new store owned by authorID and returns the persisted
// entity with its assigned id, slug and creation timestamp.
func (s *StoreService) Create(ctx context.Context, authorID string, req model.CreateStoreRequest) (*model.Store, error) {
	req.Trim()

	fieldErrs := req.Validate()
	if authorID == "" {
		fieldErrs = append(fieldErrs, model.FieldError{Field: "author", Message: "an author is required"})
	}

	var token string
	if req.Name != "" {
		token = slug.Make(req.Name)
		if token == "" {
			fieldErrs = append(fieldErrs, model.FieldError{Field: "name", Message: "name does not reduce to a usable slug"})
		}
	}
	if err := model.NewValidationError(fieldErrs); err != nil {
		return nil, err
	}

	resolved, err := s.allocateSlug(ctx, token)
	if err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:        req.Name,
		Slug:        resolved,
		Description: req.Description,
		Tags:        req.Tags,
		Location:    normalizeLocation(req.Location),
		Photo:       req.Photo,
		AuthorID:    authorID,
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return store, nil
}

// Update applies a partial update to a store on behalf of actingUserID and
// returns the post-write representation. The slug is recomputed only when
// the name actually changes; an update that leaves the name untouched
// never perturbs an existing slug.
func (s *StoreService) Update(ctx context.Context, actingUserID, storeID string, req model.UpdateStoreRequest) (*model.Store, error) {
	current, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrStoreNotFound
	}

	if err := s.AssertOwner(current, actingUserID); err != nil {
		return nil, err
	}

	req.Trim()
	if err := model.NewValidationError(req.Validate()); err != nil {
		return nil, err
	}

	next := *current
	next.Reviews = nil

	if req.Name != nil && *req.Name != current.Name {
		token := slug.Make(*req.Name)
		if token == "" {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "name", Message: "name does not reduce to a usable slug"},
			})
		}
		resolved, err := s.allocateSlug(ctx, token)
		if err != nil {
			return nil, err
		}
		next.Name = *req.Name
		next.Slug = resolved
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Tags != nil {
		next.Tags = req.Tags
	}
	if req.Location != nil {
		next.Location = normalizeLocation(req.Location)
	}
	if req.Photo != nil {
		next.Photo = req.Photo
	}

	updated, err := s.storeRepo.Update(ctx, &next)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrStoreNotFound
	}
	return updated, nil
}

// GetByID retrieves a store by id.
func (s *StoreService) GetByID(ctx context.Context, id string) (*model.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// GetBySlug retrieves a store by slug without its reviews.
func (s *StoreService) GetBySlug(ctx context.Context, storeSlug string) (*model.Store, error) {
	store, err := s.storeRepo.GetBySlug(ctx, storeSlug)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// GetBySlugWithReviews retrieves a store by slug with its reviews eagerly
// attached, for the detail view. The join is part of this read path's
// contract; callers never need a second query.
func (s *StoreService) GetBySlugWithReviews(ctx context.Context, storeSlug string) (*model.Store, error) {
	store, err := s.storeRepo.GetBySlugWithReviews(ctx, storeSlug)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// List retrieves all stores.
func (s *StoreService) List(ctx context.Context) ([]*model.Store, error) {
	return s.storeRepo.List(ctx)
}

// AssertOwner checks that actingUserID owns the store. Ownership is
// immutable after creation; only the owner may mutate a store. The error
// does not reveal anything about the store beyond what the caller already
// supplied.
func (s *StoreService) AssertOwner(store *model.Store, actingUserID string) error {
	if actingUserID == "" || store.AuthorID != actingUserID {
		return ErrNotStoreOwner
	}
	return nil
}

// allocateSlug resolves a unique slug variant for the token: the bare
// token when nothing collides, otherwise "token-<n+1>" where n is the
// count of existing slugs matching the token or a numeric-suffixed
// variant.
//
// The count is read before the write commits, so two concurrent
// allocations of the same token can both observe the same count and
// collide. That gap is intentionally not closed here; the UNIQUE index on
// store.slug rejects the loser, which surfaces as ErrSlugTaken and may be
// retried once by the caller. Renames can also free a middle suffix that
// this strategy will never reuse.
func (s *StoreService) allocateSlug(ctx context.Context, token string) (string, error) {
	n, err := s.storeRepo.CountSlugMatches(ctx, token)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return token, nil
	}
	return fmt.Sprintf("%s-%d", token, n+1), nil
}

// normalizeLocation pins the geometry type to "Point" whenever coordinates
// are supplied, regardless of what the caller sent.
func normalizeLocation(loc *model.Location) *model.Location {
	if loc == nil {
		return nil
	}
	normalized := *loc
	normalized.Type = model.LocationTypePoint
	return &normalized
}
