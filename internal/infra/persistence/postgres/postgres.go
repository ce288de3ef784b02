package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"userhub/config"
	"userhub/internal/domain/lifecycle"
	"userhub/internal/errors"
	"userhub/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Registry `optional:"true"`
}

// New opens the PostgreSQL account store. The schema is migrated on start,
// once the primary answers a ping, and the pool is closed on stop.
func New(params Params) (*gorm.DB, error) {
	conn := params.Config.Postgres
	if conn == nil {
		return nil, errors.New("postgres section is required for the postgres storage driver")
	}
	logger := params.Logger.With(slog.String("database", conn.Database))

	db, err := pgLib.New(conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Every account operation touches a single row; no implicit transaction is needed.
		SkipDefaultTransaction: true,
		Logger:                 newQueryLogger(logger, params.Config.Env.Debug),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if params.Metrics != nil && params.Metrics.Enabled() {
		if err := registerPoolCollector(params.Metrics, sqlDB, conn.Database); err != nil {
			return nil, err
		}
	}

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return start(ctx, sqlDB, logger)
		},
		OnStop: func(_ context.Context) error {
			return errors.Wrap(sqlDB.Close(), "failed to close PostgreSQL")
		},
	})

	return db, nil
}

func start(ctx context.Context, sqlDB *sql.DB, logger *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		return errors.Wrap(err, "failed to ping PostgreSQL")
	}

	if err := Migrate(ctx, sqlDB, logger); err != nil {
		return err
	}

	stats := sqlDB.Stats()
	logger.Info("PostgreSQL account store ready",
		slog.Int("maxOpenConns", stats.MaxOpenConnections),
		slog.Int("openConns", stats.OpenConnections),
	)

	return nil
}

// registerPoolCollector exports connection pool statistics (open, in use,
// idle, wait count and wait time) as go_sql_* metrics labelled with db_name.
func registerPoolCollector(reg prometheus.Registerer, sqlDB *sql.DB, dbName string) error {
	err := reg.Register(collectors.NewDBStatsCollector(sqlDB, dbName))

	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		return errors.Wrap(err, "register PostgreSQL pool collector")
	}

	return nil
}
