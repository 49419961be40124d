package service

import "errors"

// Centralized service layer errors.
// All sentinel errors returned by service methods are defined here for
// consistency and to make error handling by callers predictable.
// Validation failures are not sentinels; they are *model.ValidationError
// values carrying the offending field names.

// ===== Store Errors =====
var (
	ErrStoreNotFound = errors.New("store not found")
	ErrSlugTaken     = errors.New("a store with this slug already exists")
	ErrNotStoreOwner = errors.New("you must own a store in order to edit it")
)

// ===== User Errors =====
var (
	ErrUserNotFound = errors.New("user not found")
)

// ===== Search Errors =====
var (
	ErrEmptyQuery = errors.New("search query is required")
)
