// Package config loads and validates application configuration for Savor.
//
// Configuration is read from environment variables with sensible
// development defaults. Load never fails; Validate reports every problem
// at once via errors.Join so operators fix a broken environment in one
// pass instead of one variable at a time.
package config
