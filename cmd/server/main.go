package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"estateiq/server/config"
	"estateiq/server/internal/api"
	"estateiq/server/internal/metrics"
	"estateiq/server/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Optional .env for local development; the environment wins otherwise.
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded configuration from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	collector := metrics.NewCollector("estateiq")

	// The record store lives for the process lifetime; records arrive
	// through the ingestion endpoints and are discarded on shutdown.
	recordStore := store.NewStore(logger)

	handler := api.NewHandler(recordStore, cfg, logger, collector)

	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
