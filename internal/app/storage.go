package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-todo-lambda/internal/config"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
	"github.com/adanyl0v/go-todo-lambda/internal/storage/dynamo"
	"github.com/adanyl0v/go-todo-lambda/internal/storage/memory"
	"github.com/adanyl0v/go-todo-lambda/internal/storage/mongo"
	"github.com/adanyl0v/go-todo-lambda/internal/storage/postgres"
)

// globalTaskStore is shared by every request served by this process.
// The backend behind it is built on the first request.
var globalTaskStore *storage.LazyStore

func InitTaskStore() {
	cfg := config.Global().Storage
	globalTaskStore = storage.NewLazy(func(ctx context.Context) (storage.TaskStore, error) {
		return newTaskStore(ctx, cfg)
	})
	globalLogger.Info().
		Str("storage_driver", cfg.Driver).
		Msg("registered task store")
}

func CloseTaskStore() {
	err := globalTaskStore.Close(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close task store")
		return
	}
	globalLogger.Info().Msg("closed task store")
}

func newTaskStore(ctx context.Context, cfg config.StorageConfig) (storage.TaskStore, error) {
	logger := globalLogger.With().
		Str("storage_driver", cfg.Driver).
		Str("table", cfg.TableName).
		Logger()

	var (
		store storage.TaskStore
		err   error
	)
	switch cfg.Driver {
	case config.StorageDynamoDB:
		store, err = newDynamoStore(ctx, logger, cfg)
	case config.StoragePostgres:
		store, err = newPostgresStore(ctx, logger, cfg)
	case config.StorageMongo:
		store, err = newMongoStore(ctx, logger, cfg)
	case config.StorageMemory:
		store = memory.New()
	default:
		err = fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to build task store")
		return nil, err
	}

	logger.Info().Msg("built task store")
	return store, nil
}

func newDynamoStore(ctx context.Context, logger zerolog.Logger, cfg config.StorageConfig) (storage.TaskStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.DynamoDB.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})
	logger.Debug().
		Str("region", awsCfg.Region).
		Str("endpoint", cfg.DynamoDB.Endpoint).
		Msg("created dynamodb client")

	return dynamo.New(logger, client, cfg.TableName), nil
}

func newPostgresStore(ctx context.Context, logger zerolog.Logger, cfg config.StorageConfig) (storage.TaskStore, error) {
	pgCfg := cfg.Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pgCfg.Username, pgCfg.Password, pgCfg.Host,
		pgCfg.Port, pgCfg.Database, pgCfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = pgCfg.ConnectTimeout

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pgCfg.PingTimeout)
	defer cancel()

	err = pgPool.Ping(pingCtx)
	if err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info().
		Str("host", pgCfg.Host).
		Int("port", pgCfg.Port).
		Msg("connected to postgres")

	store := postgres.New(logger, pgPool, cfg.TableName)
	err = store.Migrate(ctx)
	if err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}
	return store, nil
}

func newMongoStore(ctx context.Context, logger zerolog.Logger, cfg config.StorageConfig) (storage.TaskStore, error) {
	mongoCfg := cfg.Mongo

	connectCtx, cancel := context.WithTimeout(ctx, mongoCfg.ConnectTimeout)
	defer cancel()

	client, err := mongodriver.Connect(connectCtx, options.Client().ApplyURI(mongoCfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	err = client.Ping(connectCtx, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	logger.Info().
		Str("database", mongoCfg.Database).
		Msg("connected to mongo")

	return mongo.New(logger, client, mongoCfg.Database, cfg.TableName), nil
}
