// Package tests contains end-to-end acceptance tests for the Savor store
// directory core.
//
// These tests run against a real SurrealDB instance to validate actual
// database behavior including unique indexes, full-text search indexes,
// and the geospatial index.
//
// To run tests:
//  1. Start SurrealDB: surreal start memory -A --user root --pass root
//  2. Run tests: go test ./tests/...
//
// Environment variables:
//
//	TEST_DB_HOST     - SurrealDB host (default: localhost)
//	TEST_DB_PORT     - SurrealDB port (default: 8000)
//	TEST_DB_USER     - SurrealDB username (default: root)
//	TEST_DB_PASSWORD - SurrealDB password (default: root)
package tests

import (
	"testing"

	"github.com/forgo/savor/internal/testing/fixtures"
	"github.com/forgo/savor/internal/testing/testdb"
)

/*
FEATURE: Test Infrastructure Smoke Test
DOMAIN: Infrastructure

ACCEPTANCE CRITERIA:
===================

AC-SMOKE-001: Database Connection
  GIVEN SurrealDB is running
  WHEN we create a test database
  THEN the connection succeeds
  AND the schema is applied

AC-SMOKE-002: Fixture Creation
  GIVEN a test database
  WHEN we create an author fixture
  THEN the author exists in the database

AC-SMOKE-003: Store Creation
  GIVEN a test database with an author
  WHEN we create a store fixture
  THEN the store is created with an id and a slug
*/

func TestSmoke_DatabaseConnection(t *testing.T) {
	// AC-SMOKE-001: Database Connection
	tdb := testdb.New(t)
	defer tdb.Close()

	if err := tdb.DB.Ping(tdb.Ctx()); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	results := tdb.MustQuery("INFO FOR DB", nil)
	if len(results) == 0 {
		t.Fatal("expected database info, got none")
	}
}

func TestSmoke_FixtureCreation(t *testing.T) {
	// AC-SMOKE-002: Fixture Creation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	author := f.CreateAuthor(t)

	if author.ID == "" {
		t.Error("expected author to have an ID")
	}
	if author.Email == "" {
		t.Error("expected author to have an email")
	}
}

func TestSmoke_StoreCreation(t *testing.T) {
	// AC-SMOKE-003: Store Creation
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	author := f.CreateAuthor(t)
	store := f.CreateStore(t, author)

	if store.ID == "" {
		t.Error("expected store to have an ID")
	}
	if store.Slug == "" {
		t.Error("expected store to have a slug")
	}
	if store.AuthorID != author.ID {
		t.Errorf("expected store author %q, got %q", author.ID, store.AuthorID)
	}
}
