package impl

import (
	"context"
	"testing"
	"time"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := validRegisterInput()
	input.FirstName = entity.Some("Alice")
	newID := entity.AccountID(uuid.Must(uuid.NewV7()))

	fx.accountRepo.EXPECT().
		FindByUsernameOrEmail(ctx, "alice", "alice@x.com").
		Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("secret1").Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Insert(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, account *entity.Account) {
			assert.Equal(t, "alice", account.Username)
			assert.Equal(t, "alice@x.com", account.Email)
			assert.Equal(t, "hashed_password", account.PasswordHash)
			require.NotNil(t, account.FirstName)
			assert.Equal(t, "Alice", *account.FirstName)
			assert.Nil(t, account.LastName)
			assert.Equal(t, fx.now, account.CreatedAt)
			assert.Equal(t, fx.now, account.UpdatedAt)
		}).
		Return(newID, nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, newID, output.AccountID)
}

func TestAccountService_Register_ValidationFailsFirstRuleWithoutStoreAccess(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RegisterInput
		rule  string
	}{
		{
			name:  "all invalid reports username",
			input: usecase.RegisterInput{Username: "al", Email: "bad", Password: "123"},
			rule:  entity.RuleUsernameLength,
		},
		{
			name:  "email before password",
			input: usecase.RegisterInput{Username: "alice", Email: "bad", Password: "123"},
			rule:  entity.RuleEmailFormat,
		},
		{
			name:  "short password",
			input: usecase.RegisterInput{Username: "alice", Email: "alice@x.com", Password: "12345"},
			rule:  entity.RulePasswordLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)

			_, err := fx.service.Register(context.Background(), &tt.input)

			var validationErr *domainerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.rule, validationErr.Rule())
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestAccountService_Register_PreCheckConflict(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().
		FindByUsernameOrEmail(ctx, "alice", "alice@x.com").
		Return(storedAccount("alice", "other@x.com"), nil)

	_, err := fx.service.Register(ctx, validRegisterInput())

	assert.ErrorIs(t, err, domainerrors.ErrAccountConflict)
}

func TestAccountService_Register_InsertRaceMapsToConflict(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByUsernameOrEmail(ctx, "alice", "alice@x.com").Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("secret1").Return("hashed_password", nil)
	fx.accountRepo.EXPECT().Insert(ctx, mock.Anything).Return(entity.NilAccountID, repository.ErrDuplicateKey)

	_, err := fx.service.Register(ctx, validRegisterInput())

	assert.ErrorIs(t, err, domainerrors.ErrAccountConflict)
}

func TestAccountService_Register_StoreFailures(t *testing.T) {
	storeErr := domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed")

	t.Run("pre-check", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsernameOrEmail(mock.Anything, mock.Anything, mock.Anything).Return(nil, storeErr)

		_, err := fx.service.Register(context.Background(), validRegisterInput())

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainerrors.KindStore, appErr.Kind())
	})

	t.Run("insert", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsernameOrEmail(mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrAccountNotFound)
		fx.hasher.EXPECT().Hash(mock.Anything).Return("hashed_password", nil)
		fx.accountRepo.EXPECT().Insert(mock.Anything, mock.Anything).Return(entity.NilAccountID, storeErr)

		_, err := fx.service.Register(context.Background(), validRegisterInput())

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainerrors.KindStore, appErr.Kind())
	})
}

func TestAccountService_Register_HashFailures(t *testing.T) {
	t.Run("other failure is internal", func(t *testing.T) {
		fx := createTestAccountService(t)

		fx.accountRepo.EXPECT().FindByUsernameOrEmail(mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrAccountNotFound)
		fx.hasher.EXPECT().Hash(mock.Anything).Return("", errors.New("entropy exhausted"))

		_, err := fx.service.Register(context.Background(), validRegisterInput())

		assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	account := storedAccount("alice", "alice@x.com")

	t.Run("success returns the full account", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(account, nil)
		fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(true)

		got, err := fx.service.Authenticate(context.Background(), "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, "stored_hash", got.PasswordHash)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(account, nil)
		fx.hasher.EXPECT().Check("wrong", "stored_hash").Return(false)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "nobody").Return(nil, repository.ErrAccountNotFound)

		_, wrongPassword := fx.service.Authenticate(context.Background(), "alice", "wrong")
		_, unknownUser := fx.service.Authenticate(context.Background(), "nobody", "secret1")

		assert.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownUser, domainerrors.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	})

	t.Run("store failure is not an auth failure", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "alice").
			Return(nil, domainerrors.NewDatabaseExecuteError(errors.New("timeout"), "failed"))

		_, err := fx.service.Authenticate(context.Background(), "alice", "secret1")
		assert.NotErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})
}

func TestAccountService_Login(t *testing.T) {
	account := storedAccount("alice", "alice@x.com")
	expiresAt := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)

	t.Run("issues a token for the account", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(account, nil)
		fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(true)
		fx.tokenService.EXPECT().Issue(account.ID).Return("signed.token", expiresAt, nil)

		output, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "signed.token", output.AccessToken)
		assert.Equal(t, expiresAt, output.ExpiresAt)
		assert.Empty(t, output.Account.PasswordHash)
		assert.Equal(t, "stored_hash", account.PasswordHash)
	})

	t.Run("bad credentials issue nothing", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(account, nil)
		fx.hasher.EXPECT().Check("wrong", "stored_hash").Return(false)

		_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("token failure", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(account, nil)
		fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(true)
		fx.tokenService.EXPECT().Issue(account.ID).Return("", time.Time{}, errors.New("signing failed"))

		_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "secret1"})
		assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
	})
}

func TestAccountService_GetProfile(t *testing.T) {
	account := storedAccount("alice", "alice@x.com")

	t.Run("strips the hash", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(account, nil)

		got, err := fx.service.GetProfile(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Empty(t, got.PasswordHash)
	})

	t.Run("vanished account", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(nil, repository.ErrAccountNotFound)

		_, err := fx.service.GetProfile(context.Background(), account.ID)
		assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	account := storedAccount("alice", "alice@x.com")

	t.Run("empty update performs no write", func(t *testing.T) {
		fx := createTestAccountService(t)

		_, err := fx.service.UpdateProfile(context.Background(), account.ID, entity.ProfileUpdate{})

		var validationErr *domainerrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "No profile data provided", validationErr.Message())
		fx.accountRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("writes only the supplied field", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().
			UpdateFields(mock.Anything, account.ID, mock.AnythingOfType("repository.AccountFields")).
			Run(func(_ context.Context, _ entity.AccountID, fields repository.AccountFields) {
				first, ok := fields.FirstName.Get()
				assert.True(t, ok)
				assert.Equal(t, "Alicia", first)
				assert.False(t, fields.LastName.IsSet())
				assert.False(t, fields.PasswordHash.IsSet())
			}).
			Return(int64(1), nil)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(account, nil)

		got, err := fx.service.UpdateProfile(context.Background(), account.ID, entity.ProfileUpdate{FirstName: entity.Some("Alicia")})
		require.NoError(t, err)
		assert.Empty(t, got.PasswordHash)
	})

	t.Run("vanished account", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().UpdateFields(mock.Anything, account.ID, mock.Anything).Return(int64(0), nil)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(nil, repository.ErrAccountNotFound)

		_, err := fx.service.UpdateProfile(context.Background(), account.ID, entity.ProfileUpdate{LastName: entity.Some("Smith")})
		assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	account := storedAccount("alice", "alice@x.com")
	input := &usecase.ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "newpass1"}

	t.Run("success stores the new hash", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(account, nil)
		fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(true)
		fx.hasher.EXPECT().Hash("newpass1").Return("new_hash", nil)
		fx.accountRepo.EXPECT().
			UpdateFields(mock.Anything, account.ID, mock.Anything).
			Run(func(_ context.Context, _ entity.AccountID, fields repository.AccountFields) {
				hash, ok := fields.PasswordHash.Get()
				assert.True(t, ok)
				assert.Equal(t, "new_hash", hash)
				assert.False(t, fields.FirstName.IsSet())
			}).
			Return(int64(1), nil)

		assert.NoError(t, fx.service.ChangePassword(context.Background(), account.ID, input))
	})

	t.Run("short new password", func(t *testing.T) {
		fx := createTestAccountService(t)

		err := fx.service.ChangePassword(context.Background(), account.ID, &usecase.ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "short"})

		var validationErr *domainerrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, entity.RuleNewPassword, validationErr.Rule())
	})

	t.Run("wrong current password and missing account fail identically without writing", func(t *testing.T) {
		fx := createTestAccountService(t)
		missing := entity.AccountID(uuid.Must(uuid.NewV7()))
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(account, nil)
		fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(false)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, missing).Return(nil, repository.ErrAccountNotFound)

		wrong := fx.service.ChangePassword(context.Background(), account.ID, input)
		gone := fx.service.ChangePassword(context.Background(), missing, input)

		assert.ErrorIs(t, wrong, domainerrors.ErrPasswordChangeFailed)
		assert.ErrorIs(t, gone, domainerrors.ErrPasswordChangeFailed)
		fx.accountRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("account vanished before write", func(t *testing.T) {
		fx := createTestAccountService(t)
		fx.accountRepo.EXPECT().FindByID(mock.Anything, account.ID).Return(account, nil)
		fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(true)
		fx.hasher.EXPECT().Hash("newpass1").Return("new_hash", nil)
		fx.accountRepo.EXPECT().UpdateFields(mock.Anything, account.ID, mock.Anything).Return(int64(0), nil)

		err := fx.service.ChangePassword(context.Background(), account.ID, input)
		assert.ErrorIs(t, err, domainerrors.ErrPasswordChangeFailed)
	})
}
