package app

import (
	"fmt"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-todo-lambda/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Str("storage_target", storageTarget(cfg.Storage)).
		Msg("read env")

	config.SetGlobal(cfg)
}

// storageTarget describes where tasks are kept, without credentials.
func storageTarget(cfg config.StorageConfig) string {
	switch cfg.Driver {
	case config.StorageDynamoDB:
		target := "dynamodb://" + cfg.TableName
		if cfg.DynamoDB.Region != "" {
			target += "?region=" + cfg.DynamoDB.Region
		}
		if cfg.DynamoDB.Endpoint != "" {
			target += " via " + cfg.DynamoDB.Endpoint
		}
		return target
	case config.StoragePostgres:
		return fmt.Sprintf("postgres://%s:%d/%s#%s",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database, cfg.TableName)
	case config.StorageMongo:
		return fmt.Sprintf("mongo/%s.%s", cfg.Mongo.Database, cfg.TableName)
	default:
		return cfg.Driver + ":" + cfg.TableName
	}
}
