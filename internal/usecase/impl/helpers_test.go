package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"userhub/internal/domain/entity"
	mockRepo "userhub/internal/mocks/repository"
	mockSvc "userhub/internal/mocks/service"
	"userhub/internal/usecase"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      *accountService
	accountRepo  *mockRepo.MockAccountRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	now          time.Time
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	srv := NewAccountService(AccountServiceParams{
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	}).(*accountService)
	srv.now = func() time.Time { return now }

	return accountServiceFixtures{
		service:      srv,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
		now:          now,
	}
}

func storedAccount(username, email string) *entity.Account {
	first := "Alice"

	return &entity.Account{
		ID:           entity.AccountID(uuid.Must(uuid.NewV7())),
		Username:     username,
		Email:        email,
		PasswordHash: "stored_hash",
		FirstName:    &first,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secret1",
	}
}
