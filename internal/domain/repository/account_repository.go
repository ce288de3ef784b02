// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"userhub/internal/domain/entity"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateKey is returned when an insert collides with a unique username or email index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// AccountFields lists the attributes a partial update may write.
// Absent fields are not written; UpdatedAt is always stamped.
type AccountFields struct {
	FirstName    entity.Optional[string]
	LastName     entity.Optional[string]
	PasswordHash entity.Optional[string]
}

// IsEmpty reports whether no field is present.
func (f AccountFields) IsEmpty() bool {
	return !f.FirstName.IsSet() && !f.LastName.IsSet() && !f.PasswordHash.IsSet()
}

// AccountRepository defines the operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByUsernameOrEmail returns any account whose username or email matches.
	// It backs the uniqueness pre-check at registration.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.Account, error)

	// FindByUsername retrieves an account by its exact username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByID retrieves an account by its identifier.
	FindByID(ctx context.Context, id entity.AccountID) (*entity.Account, error)

	// Insert persists a new account and returns the identifier the store assigned.
	// It fails with ErrDuplicateKey when the username or email is already taken.
	Insert(ctx context.Context, account *entity.Account) (entity.AccountID, error)

	// UpdateFields writes the present fields of a partial update and stamps UpdatedAt.
	// It returns the number of modified accounts (0 when the id is unknown).
	UpdateFields(ctx context.Context, id entity.AccountID, fields AccountFields) (int64, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
