// Package memory provides a process-local account store for tests and local development.
package memory

import (
	"context"
	"sync"
	"time"

	"userhub/internal/domain/entity"
	"userhub/internal/domain/repository"
	"userhub/internal/errors"
)

// accountRepository keeps accounts in a map guarded by a RWMutex.
// Username and email uniqueness is enforced under the write lock, like a unique index.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[entity.AccountID]*entity.Account
	now      func() time.Time
}

// NewAccountRepository returns an empty in-memory store.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		accounts: make(map[entity.AccountID]*entity.Account),
		now:      time.Now,
	}
}

func (repo *accountRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, account := range repo.accounts {
		if account.Username == username || account.Email == email {
			return clone(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (repo *accountRepository) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, account := range repo.accounts {
		if account.Username == username {
			return clone(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (repo *accountRepository) FindByID(_ context.Context, id entity.AccountID) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return clone(account), nil
}

func (repo *accountRepository) Insert(_ context.Context, account *entity.Account) (entity.AccountID, error) {
	id, err := entity.NewAccountID()
	if err != nil {
		return entity.NilAccountID, errors.Wrap(err, "failed to generate account id")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return entity.NilAccountID, repository.ErrDuplicateKey
		}
	}

	stored := clone(account)
	stored.ID = id
	repo.accounts[id] = stored

	return id, nil
}

func (repo *accountRepository) UpdateFields(_ context.Context, id entity.AccountID, fields repository.AccountFields) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	account, ok := repo.accounts[id]
	if !ok {
		return 0, nil
	}

	if fields.FirstName.IsSet() {
		account.FirstName = fields.FirstName.Ptr()
	}
	if fields.LastName.IsSet() {
		account.LastName = fields.LastName.Ptr()
	}
	if v, ok := fields.PasswordHash.Get(); ok {
		account.PasswordHash = v
	}
	account.UpdatedAt = repo.now()

	return 1, nil
}

func (repo *accountRepository) Ping(context.Context) error {
	return nil
}

func clone(account *entity.Account) *entity.Account {
	cp := *account
	if account.FirstName != nil {
		v := *account.FirstName
		cp.FirstName = &v
	}
	if account.LastName != nil {
		v := *account.LastName
		cp.LastName = &v
	}

	return &cp
}
