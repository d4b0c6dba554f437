package main

import (
	"todoapi/config"
	"todoapi/di"
	"todoapi/shared/logger"
)

// @title To-Do API
// @version 1.0
// @description Task list service with a completed-task cleanup job and a creation archive.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	http := di.InitializeService()
	http.Serve()
}
