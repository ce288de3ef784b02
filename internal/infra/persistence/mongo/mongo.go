// Package mongo contains the document store implementation of the persistence layer.
package mongo

import (
	"context"
	"crypto/tls"
	"log/slog"

	"userhub/config"
	"userhub/internal/domain/lifecycle"
	"userhub/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New connects to the document store and returns the accounts collection.
// The client is pinged and the unique indexes are ensured on start, and disconnected on stop.
func New(params Params) (*mongo.Collection, error) {
	cfg := params.Config.Mongo
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongo.uri is required for the mongo storage driver")
	}

	client, err := mongo.Connect(context.Background(), clientOptions(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Mongo client")
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, nil); err != nil {
				return errors.Wrap(err, "failed to ping Mongo")
			}

			if err := EnsureIndexes(ctx, collection); err != nil {
				return err
			}

			params.Logger.Info("Mongo account store ready",
				slog.String("database", cfg.Database),
				slog.String("collection", cfg.Collection),
			)

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			return client.Disconnect(stopCtx)
		},
	})

	return collection, nil
}

func clientOptions(cfg *config.MongoConfig) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetSocketTimeout(cfg.SocketTimeout)

	if cfg.TLSAllowInvalidCertificates {
		//nolint:gosec // opt-in for self-signed development clusters
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return opts
}

// EnsureIndexes creates the unique username and email indexes if they do not exist yet.
func EnsureIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldUsername, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
		{
			Keys:    bson.D{{Key: fieldEmail, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create account indexes")
	}

	return nil
}
