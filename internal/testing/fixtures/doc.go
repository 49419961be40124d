// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories go through the real
// repositories and services so the fixtures exercise the same write paths
// the application uses.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	author := f.CreateAuthor(t)
//	store := f.CreateStore(t, author)
//	f.CreateReview(t, store, author, 5)
package fixtures
