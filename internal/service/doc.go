// Package service implements the business logic layer for the Savor API.
//
// The service package contains the domain logic, validation rules, and
// orchestration of repository operations for the store directory: the
// create/update pipeline with slug allocation, the derived aggregation
// views, and the read-side query gateway.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or *model.ValidationError
//   - Context is passed through for cancellation
//
// Services are constructed once at process start with their repository
// handles and passed to callers explicitly; there is no global registry.
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from the SurrealDB implementation
//   - Clear contracts for data access requirements
//
// # Error Handling
//
// Four recoverable conditions are surfaced distinctly so callers can render
// the right thing: validation failures (form errors, with field names),
// not-found, slug conflicts, and authorization failures. None of them is a
// process-level fault, and services never log.
package service
