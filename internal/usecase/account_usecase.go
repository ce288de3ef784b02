// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"userhub/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName entity.Optional[string]
	LastName  entity.Optional[string]
}

// LoginInput defines the data required for an account holder to log in.
type LoginInput struct {
	Username string
	Password string
}

// ChangePasswordInput defines the data required to rotate a password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// RegisterOutput returns the identifier of the newly created account.
type RegisterOutput struct {
	AccountID entity.AccountID
}

// LoginOutput returns the issued session token after a successful login.
type LoginOutput struct {
	AccessToken string
	ExpiresAt   time.Time
	Account     *entity.Account // Password hash already stripped.
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Authenticate(ctx context.Context, username, password string) (*entity.Account, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, accountID entity.AccountID) (*entity.Account, error)
	UpdateProfile(ctx context.Context, accountID entity.AccountID, update entity.ProfileUpdate) (*entity.Account, error)
	ChangePassword(ctx context.Context, accountID entity.AccountID, input *ChangePasswordInput) error
}

// HealthUsecase reports whether the service can reach its dependencies.
type HealthUsecase interface {
	Check(ctx context.Context) error
}
