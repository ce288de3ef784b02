// Package persistence selects and wires the account store backend.
package persistence

import (
	"log/slog"

	"userhub/config"
	"userhub/internal/domain/repository"
	"userhub/internal/infra/metrics"
	"userhub/internal/infra/persistence/memory"
	"userhub/internal/infra/persistence/mongo"
	"userhub/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RepositoryParams holds dependencies for the AccountRepository, injected by Fx
type RepositoryParams struct {
	fx.In

	Lc      fx.Lifecycle
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Registry `optional:"true"`
}

// NewAccountRepository creates the AccountRepository named by storage.driver.
func NewAccountRepository(params RepositoryParams) (repository.AccountRepository, error) {
	driver := params.Config.Storage.Driver
	logger := params.Logger.With(slog.String("driver", driver))

	switch driver {
	case config.StorageDriverMongo:
		collection, err := mongo.New(mongo.Params{
			Lifecycle: params.Lc,
			Config:    params.Config,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using Mongo account store")

		return mongo.NewAccountRepository(collection), nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lc,
			Config:    params.Config,
			Logger:    logger,
			Metrics:   params.Metrics,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using PostgreSQL account store")

		return postgres.NewAccountRepository(db), nil

	case config.StorageDriverMemory:
		logger.Warn("Using in-memory account store; accounts are lost on restart")

		return memory.NewAccountRepository(), nil

	default:
		return nil, errors.Errorf("unknown storage driver: %s", driver)
	}
}

// Module provides the persistence FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewAccountRepository),
)
