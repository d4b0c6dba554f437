package di

import (
	"todoapi/config"
	"todoapi/infras/dynamo"
	"todoapi/infras/otel"
	"todoapi/infras/postgres"
	"todoapi/internal/domains/todo/model"
	"todoapi/shared/tablestore"

	"github.com/rs/zerolog/log"
)

// ProvideTodoStore connects the table store backend named by STORE_DRIVER.
func ProvideTodoStore(cfg *config.Config, otl otel.Otel) tablestore.Client[model.TodoEntity] {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return tablestore.NewPostgres[model.TodoEntity](postgres.New(cfg), otl, cfg.Store.TableName)
	case config.StoreDriverDynamo:
		return tablestore.NewDynamo[model.TodoEntity](dynamo.New(cfg), otl, cfg.Store.TableName)
	}

	log.Fatal().Str("driver", cfg.Store.Driver).Msg("Unsupported store driver")

	return nil
}
