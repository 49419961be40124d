// Package model defines domain entities and data structures for the Savor API.
//
// The model package contains struct definitions for domain objects,
// request types with their validation rules, and error types. Models are
// used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - Store: A registered store with a unique URL slug, tags, optional
//     geolocation and an owning author
//   - Review: Reader feedback attached to a store, carrying a numeric rating
//   - User: A store author account
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Store struct {
//	    ID   string `json:"id"`
//	    Name string `json:"name"`
//	    Slug string `json:"slug"`
//	}
//
// # Validation
//
// Request types expose a Validate() method returning a []FieldError naming
// each offending field. Services wrap non-empty results in a
// *ValidationError so callers can distinguish form errors from not-found
// and conflict conditions.
package model
