package mongo

import (
	"context"
	"time"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	fieldID           = "_id"
	fieldUsername     = "username"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldUpdatedAt    = "updated_at"
)

// accountDocument mirrors one document of the accounts collection.
// _id holds the canonical account id in its string form.
type accountDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    *string   `bson:"first_name"`
	LastName     *string   `bson:"last_name"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// accountRepository implements the repository.AccountRepository interface on a Mongo collection.
type accountRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(collection *mongo.Collection) repository.AccountRepository {
	return &accountRepository{
		collection: collection,
		now:        time.Now,
	}
}

// FindByUsernameOrEmail returns the first account matching either the username or the email.
func (repo *accountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.Account, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{fieldUsername: username},
		bson.M{fieldEmail: email},
	}}

	return repo.findOne(ctx, filter, "failed to find account by username or email")
}

// FindByUsername retrieves an account by its exact username.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return repo.findOne(ctx, bson.M{fieldUsername: username}, "failed to find account by username")
}

// FindByID retrieves an account by its identifier.
func (repo *accountRepository) FindByID(ctx context.Context, id entity.AccountID) (*entity.Account, error) {
	return repo.findOne(ctx, bson.M{fieldID: id.String()}, "failed to find account by id")
}

// Insert persists a new account with a freshly generated identifier.
func (repo *accountRepository) Insert(ctx context.Context, account *entity.Account) (entity.AccountID, error) {
	id, err := entity.NewAccountID()
	if err != nil {
		return entity.NilAccountID, errors.Wrap(err, "failed to generate account id")
	}

	doc := fromAccountDomain(account)
	doc.ID = id.String()

	if _, err := repo.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.NilAccountID, repository.ErrDuplicateKey
		}

		return entity.NilAccountID, domainerrors.NewDatabaseExecuteError(err, "failed to insert account")
	}

	return id, nil
}

// UpdateFields $sets the present fields together with updated_at.
func (repo *accountRepository) UpdateFields(ctx context.Context, id entity.AccountID, fields repository.AccountFields) (int64, error) {
	set := bson.M{fieldUpdatedAt: repo.now().UTC()}
	if v, ok := fields.FirstName.Get(); ok {
		set[fieldFirstName] = v
	}
	if v, ok := fields.LastName.Get(); ok {
		set[fieldLastName] = v
	}
	if v, ok := fields.PasswordHash.Get(); ok {
		set[fieldPasswordHash] = v
	}

	result, err := repo.collection.UpdateOne(ctx, bson.M{fieldID: id.String()}, bson.M{"$set": set})
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to update account")
	}

	return result.ModifiedCount, nil
}

// Ping checks that the deployment answers.
func (repo *accountRepository) Ping(ctx context.Context) error {
	if err := repo.collection.Database().Client().Ping(ctx, nil); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to ping account store")
	}

	return nil
}

func (repo *accountRepository) findOne(ctx context.Context, filter bson.M, details string) (*entity.Account, error) {
	var doc accountDocument
	if err := repo.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return toAccountDomain(&doc)
}

// --- Mapper Functions ---

func toAccountDomain(doc *accountDocument) (*entity.Account, error) {
	id, err := entity.ParseAccountID(doc.ID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "stored account has a malformed id")
	}

	return &entity.Account{
		ID:           id,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func fromAccountDomain(account *entity.Account) *accountDocument {
	return &accountDocument{
		ID:           account.ID.String(),
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		CreatedAt:    account.CreatedAt.UTC(),
		UpdatedAt:    account.UpdatedAt.UTC(),
	}
}
