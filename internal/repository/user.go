package repository

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/savor/internal/database"
	"github.com/forgo/savor/internal/model"
)

// UserRepository handles store-author account data access. Login flows and
// sessions belong to the auth collaborator; the core only needs identities
// for the Store ownership relation, so this repository stays small.
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new author account with a bcrypt-hashed password.
func (r *UserRepository) Create(ctx context.Context, user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	query := `
		CREATE user CONTENT {
			name: $name,
			email: string::lowercase($email),
			password_hash: $password_hash,
			created: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": string(hash),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already registered", database.ErrDuplicate)
		}
		return err
	}

	created, err := parseUserResult(result)
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.Email = created.Email
	user.Created = created.Created
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// GetByEmail retrieves a user by email, case-insensitively.
// Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT * FROM user
		WHERE email = string::lowercase($email)
		LIMIT 1
	`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

func parseUserResult(result interface{}) (*model.User, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	user := &model.User{
		ID:    convertSurrealID(data["id"]),
		Name:  getString(data, "name"),
		Email: getString(data, "email"),
	}

	if t := getTime(data, "created"); t != nil {
		user.Created = *t
	}

	return user, nil
}
