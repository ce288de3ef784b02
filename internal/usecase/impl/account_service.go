// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/domain/service"
	"userhub/internal/errors"
	"userhub/internal/usecase"

	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, rejects taken usernames or emails and stores the new account.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if err := entity.ValidateRegistration(input.Username, input.Email, input.Password); err != nil {
		srv.log(ctx).Debug("Registration rejected by validation", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	_, err := srv.accountRepo.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err == nil {
		srv.log(ctx).Info("Registration conflicts with an existing account", slog.String("username", input.Username))

		return nil, domainerrors.ErrAccountConflict.WrapMessage("username or email pre-check matched")
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, errors.Wrap(err, "failed to check account uniqueness")
	}

	hashedPassword, err := srv.hashPassword(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	account := &entity.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName.Ptr(),
		LastName:     input.LastName.Ptr(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	accountID, err := srv.accountRepo.Insert(ctx, account)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Lost the race against a concurrent registration.
		srv.log(ctx).Info("Registration hit unique index", slog.String("username", input.Username))

		return nil, domainerrors.ErrAccountConflict.WrapMessage("unique index rejected insert")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert account")
	}

	srv.log(ctx).Info("Account registered", slog.String("accountID", accountID.String()))

	return &usecase.RegisterOutput{AccountID: accountID}, nil
}

// Authenticate returns the full account when the password matches.
// Unknown usernames and wrong passwords fail identically.
func (srv *accountService) Authenticate(ctx context.Context, username, password string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Debug("Authentication failed", slog.String("username", username))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account by username")
	}

	if !srv.hasher.Check(password, account.PasswordHash) {
		srv.log(ctx).Debug("Authentication failed", slog.String("username", username))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return account, nil
}

// Login authenticates the credentials and issues a session token for the account.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	account, err := srv.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := srv.tokenService.Issue(account.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.String("accountID", account.ID.String()), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	srv.log(ctx).Info("Account logged in", slog.String("accountID", account.ID.String()))

	return &usecase.LoginOutput{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Account:     account.Redacted(),
	}, nil
}

// GetProfile loads the account without its password hash.
func (srv *accountService) GetProfile(ctx context.Context, accountID entity.AccountID) (*entity.Account, error) {
	account, err := srv.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return account.Redacted(), nil
}

// UpdateProfile writes the supplied names and returns the refreshed account.
func (srv *accountService) UpdateProfile(ctx context.Context, accountID entity.AccountID, update entity.ProfileUpdate) (*entity.Account, error) {
	if err := entity.ValidateProfileUpdate(update); err != nil {
		return nil, err
	}

	modified, err := srv.accountRepo.UpdateFields(ctx, accountID, repository.AccountFields{
		FirstName: update.FirstName,
		LastName:  update.LastName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.String("accountID", accountID.String()), slog.Int64("modified", modified))

	// The post-update read decides whether the account still exists.
	return srv.GetProfile(ctx, accountID)
}

// ChangePassword replaces the password after verifying the current one.
// A missing account and a wrong current password fail identically.
func (srv *accountService) ChangePassword(ctx context.Context, accountID entity.AccountID, input *usecase.ChangePasswordInput) error {
	if err := entity.ValidateNewPassword(input.NewPassword); err != nil {
		return err
	}

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Warn("Password change for missing account", slog.String("accountID", accountID.String()))

		return domainerrors.ErrPasswordChangeFailed
	}
	if err != nil {
		return errors.Wrap(err, "failed to find account by id")
	}

	if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
		srv.log(ctx).Info("Password change rejected: current password mismatch", slog.String("accountID", accountID.String()))

		return domainerrors.ErrPasswordChangeFailed
	}

	hashedPassword, err := srv.hashPassword(ctx, input.NewPassword)
	if err != nil {
		return err
	}

	modified, err := srv.accountRepo.UpdateFields(ctx, accountID, repository.AccountFields{
		PasswordHash: entity.Some(hashedPassword),
	})
	if err != nil {
		return errors.Wrap(err, "failed to store new password")
	}
	if modified == 0 {
		return domainerrors.ErrPasswordChangeFailed
	}

	srv.log(ctx).Info("Password changed", slog.String("accountID", accountID.String()))

	return nil
}

func (srv *accountService) findAccount(ctx context.Context, accountID entity.AccountID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return account, nil
}

func (srv *accountService) hashPassword(ctx context.Context, password string) (string, error) {
	hashed, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return hashed, nil
}
