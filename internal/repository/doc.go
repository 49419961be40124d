// Package repository implements the data access layer for the Savor API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles the operations for a specific domain
// entity; the StoreRepository additionally owns the aggregation and search
// queries, since those are executed by the storage engine rather than
// in-process.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Index Contract
//
// The store table carries three indexes defined in migrations/: a UNIQUE
// index on slug, SEARCH indexes over name and description (same analyzer,
// equal weight), and an MTREE index over location.coordinates. SurrealDB
// updates these synchronously with every write, so reads issued after a
// successful write always observe a consistent index.
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - RETURN AFTER on updates so callers get the post-write representation
package repository
