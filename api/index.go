package handler

import (
	"net/http"
	"sync"
	"todoapi/config"
	"todoapi/di"
	"todoapi/shared/logger"
)

var (
	app     http.Handler
	appOnce sync.Once
)

// Handler is the serverless entry point. The routed application is built on the first request.
func Handler(w http.ResponseWriter, r *http.Request) {
	appOnce.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		app = di.InitializeService().Handler()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
