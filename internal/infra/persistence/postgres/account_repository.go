// Package postgres contains the relational implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/errors"
	"userhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{
		db:  db,
		now: time.Now,
	}
}

// FindByUsernameOrEmail returns the first account matching either the username or the email.
func (repo *accountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&accountM).Error

	return repo.found(&accountM, err, "failed to find account by username or email")
}

// FindByUsername retrieves an account by its exact username.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&accountM).Error

	return repo.found(&accountM, err, "failed to find account by username")
}

// FindByID retrieves an account by its identifier.
func (repo *accountRepository) FindByID(ctx context.Context, id entity.AccountID) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", uuid.UUID(id)).
		First(&accountM).Error

	return repo.found(&accountM, err, "failed to find account by id")
}

// Insert persists a new account with a freshly generated identifier.
func (repo *accountRepository) Insert(ctx context.Context, account *entity.Account) (entity.AccountID, error) {
	id, err := entity.NewAccountID()
	if err != nil {
		return entity.NilAccountID, errors.Wrap(err, "failed to generate account id")
	}

	accountM := fromAccountDomain(account)
	accountM.ID = uuid.UUID(id)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return entity.NilAccountID, repository.ErrDuplicateKey
		}

		return entity.NilAccountID, domainerrors.NewDatabaseExecuteError(err, "failed to insert account")
	}

	return id, nil
}

// UpdateFields writes the present fields and stamps updated_at.
func (repo *accountRepository) UpdateFields(ctx context.Context, id entity.AccountID, fields repository.AccountFields) (int64, error) {
	updates := map[string]any{"updated_at": repo.now()}
	if v, ok := fields.FirstName.Get(); ok {
		updates["first_name"] = v
	}
	if v, ok := fields.LastName.Get(); ok {
		updates["last_name"] = v
	}
	if v, ok := fields.PasswordHash.Get(); ok {
		updates["password_hash"] = v
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", uuid.UUID(id)).
		Updates(updates)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account")
	}

	return result.RowsAffected, nil
}

// Ping checks that the database answers.
func (repo *accountRepository) Ping(ctx context.Context) error {
	sqlDB, err := repo.db.DB()
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to get sql.DB")
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to ping account store")
	}

	return nil
}

func (repo *accountRepository) found(accountM *model.AccountModel, err error, details string) (*entity.Account, error) {
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toAccountDomain(accountM), nil
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           entity.AccountID(data.ID),
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           uuid.UUID(data.ID),
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
