package router

import (
	"net/http"
	"todoapi/config"
	"todoapi/internal/handlers/health"
	"todoapi/internal/handlers/todo"
	"todoapi/transport/http/middleware"

	// Registers the generated OpenAPI document served under /swagger.
	_ "todoapi/docs"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDocURL = "/swagger/doc.json"

type DomainHandlers struct {
	Todo   todo.Handler
	Health health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(r.Middleware.AccessLog)
	router.Use(chiMiddleware.Recoverer)

	if r.Config.App.CORS.Enable {
		router.Use(r.cors())
	}

	router.Use(r.Middleware.Tracing)

	r.DomainHandlers.Health.Router(router)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerDocURL)))

	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.Availability)
		routerGroup.Use(r.Middleware.RateLimit)

		r.DomainHandlers.Todo.Router(routerGroup)
	})
}

func (r *Router) cors() func(http.Handler) http.Handler {
	corsConfig := r.Config.App.CORS

	return cors.Handler(cors.Options{
		AllowedOrigins:   corsConfig.AllowedOrigins,
		AllowedMethods:   corsConfig.AllowedMethods,
		AllowedHeaders:   corsConfig.AllowedHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           corsConfig.MaxAgeSeconds,
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     appMiddleware,
		Config:         cfg,
	}
}
