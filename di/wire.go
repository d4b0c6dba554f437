//go:build wireinject
// +build wireinject

package di

import (
	"todoapi/config"
	"todoapi/infras/kafka"
	"todoapi/infras/otel"
	"todoapi/infras/redis"
	"todoapi/infras/s3"
	archiveHandler "todoapi/internal/handlers/archive"
	cleanupHandler "todoapi/internal/handlers/cleanup"
	"todoapi/internal/handlers/health"
	todoHandler "todoapi/internal/handlers/todo"
	"todoapi/shared/cache"
	"todoapi/transport/http"
	"todoapi/transport/http/middleware"
	"todoapi/transport/http/router"
	"todoapi/transport/worker"

	archiveService "todoapi/internal/domains/archive/service"
	cleanupService "todoapi/internal/domains/cleanup/service"
	todoRepository "todoapi/internal/domains/todo/repository"
	todoService "todoapi/internal/domains/todo/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	kafka.New,
	ProvideTodoStore,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	redis.New,
	cache.NewRedisCache,
	health.NewStatus,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var jobDomains = wire.NewSet(
	todoRepository.New,
	s3.New,
	cleanupService.New,
	archiveService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	health.New,
	router.New,
)

var jobs = wire.NewSet(
	wire.Struct(new(worker.Jobs), "*"),
	cleanupHandler.New,
	archiveHandler.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		todoDomain,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		configurations,
		infrastructures,
		jobDomains,
		jobs,
		worker.New,
	)

	return &worker.Worker{}
}
