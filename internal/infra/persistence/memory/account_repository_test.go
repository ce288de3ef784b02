package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"userhub/internal/domain/entity"
	"userhub/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(username, email string) *entity.Account {
	now := time.Now()

	return &entity.Account{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	id, err := repo.Insert(ctx, newAccount("alice", "alice@x.com"))
	require.NoError(t, err)
	assert.NotEqual(t, entity.NilAccountID, id)

	byID, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	byEither, err := repo.FindByUsernameOrEmail(ctx, "nobody", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEither.ID)

	_, err = repo.FindByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	_, err = repo.FindByID(ctx, entity.NilAccountID)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_InsertRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	_, err := repo.Insert(ctx, newAccount("alice", "alice@x.com"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, newAccount("alice", "other@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	_, err = repo.Insert(ctx, newAccount("bob", "alice@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestAccountRepository_ConcurrentInsertOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, newAccount("alice", fmt.Sprintf("alice%d@x.com", i)))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestAccountRepository_UpdateFields(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository().(*accountRepository)
	stamp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return stamp }

	account := newAccount("alice", "alice@x.com")
	last := "Smith"
	account.LastName = &last
	id, err := repo.Insert(ctx, account)
	require.NoError(t, err)

	modified, err := repo.UpdateFields(ctx, id, repository.AccountFields{FirstName: entity.Some("Alice")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Alice", *got.FirstName)
	require.NotNil(t, got.LastName)
	assert.Equal(t, "Smith", *got.LastName)
	assert.Equal(t, stamp, got.UpdatedAt)
	assert.Equal(t, "hash", got.PasswordHash)

	modified, err = repo.UpdateFields(ctx, entity.NilAccountID, repository.AccountFields{FirstName: entity.Some("x")})
	require.NoError(t, err)
	assert.Zero(t, modified)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	id, err := repo.Insert(ctx, newAccount("alice", "alice@x.com"))
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	got.Username = "mallory"

	again, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
	assert.NoError(t, repo.Ping(ctx))
}
