package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var accountColumns = []string{"id", "username", "email", "password_hash", "first_name", "last_name", "created_at", "updated_at"}

// sqlmock's option type, func(*sqlmock) error, has an unexported parameter
// type and cannot be named here, so options are passed untyped and asserted
// to the inferred option type.
func newMockRepository(t *testing.T, opts ...any) (*accountRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(appendOptions(opts, sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return NewAccountRepository(db).(*accountRepository), mock
}

func appendOptions[O any](opts []any, last O) []O {
	out := make([]O, 0, len(opts)+1)
	for _, o := range opts {
		out = append(out, o.(O))
	}

	return append(out, last)
}

func accountRow(mock sqlmock.Sqlmock, id entity.AccountID, username, email string) *sqlmock.Rows {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	return mock.NewRows(accountColumns).
		AddRow(id.String(), username, email, "$2a$10$hash", "Alice", nil, created, created)
}

func TestAccountRepository_FindByUsername(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := entity.AccountID(uuid.Must(uuid.NewV7()))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(accountRow(mock, id, "alice", "alice@x.com"))

	account, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "$2a$10$hash", account.PasswordHash)
	require.NotNil(t, account.FirstName)
	assert.Equal(t, "Alice", *account.FirstName)
	assert.Nil(t, account.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByUsernameOrEmail(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := entity.AccountID(uuid.Must(uuid.NewV7()))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 OR email = \$2`).
		WillReturnRows(accountRow(mock, id, "alice", "alice@x.com"))

	account, err := repo.FindByUsernameOrEmail(context.Background(), "bob", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(mock.NewRows(accountColumns))

	_, err := repo.FindByID(context.Background(), entity.AccountID(uuid.Must(uuid.NewV7())))
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByID_StoreFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), entity.AccountID(uuid.Must(uuid.NewV7())))

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.KindStore, appErr.Kind())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestAccountRepository_Insert(t *testing.T) {
	account := &entity.Account{
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("assigns a new id", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		id, err := repo.Insert(context.Background(), account)
		require.NoError(t, err)
		assert.NotEqual(t, entity.NilAccountID, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateKey", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		id, err := repo.Insert(context.Background(), account)
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)
		assert.Equal(t, entity.NilAccountID, id)
	})

	t.Run("translated gorm duplicate", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		_, err := repo.Insert(context.Background(), account)
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	})

	t.Run("other failure is a store error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(&pgconn.PgError{Code: "23502"})

		_, err := repo.Insert(context.Background(), account)
		assert.NotErrorIs(t, err, repository.ErrDuplicateKey)

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainerrors.KindStore, appErr.Kind())
	})
}

func TestAccountRepository_UpdateFields(t *testing.T) {
	t.Run("writes only present fields", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		stamp := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return stamp }
		id := entity.AccountID(uuid.Must(uuid.NewV7()))

		mock.ExpectExec(`UPDATE "users" SET "first_name"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs("Alice", stamp, uuid.UUID(id)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		modified, err := repo.UpdateFields(context.Background(), id, repository.AccountFields{
			FirstName: entity.Some("Alice"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), modified)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("password hash", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(`UPDATE "users" SET "password_hash"=\$1,"updated_at"=\$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		modified, err := repo.UpdateFields(context.Background(), entity.AccountID(uuid.Must(uuid.NewV7())), repository.AccountFields{
			PasswordHash: entity.Some("$2a$10$other"),
		})
		require.NoError(t, err)
		assert.Zero(t, modified)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure is a store error", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(`UPDATE "users"`).WillReturnError(sql.ErrConnDone)

		_, err := repo.UpdateFields(context.Background(), entity.AccountID(uuid.Must(uuid.NewV7())), repository.AccountFields{
			LastName: entity.Some("Smith"),
		})

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainerrors.KindStore, appErr.Kind())
	})
}

func TestAccountRepository_Ping(t *testing.T) {
	repo, mock := newMockRepository(t, sqlmock.MonitorPingsOption(true))

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	err := repo.Ping(context.Background())

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.KindStore, appErr.Kind())
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueConstraintViolation(sql.ErrNoRows))
}
