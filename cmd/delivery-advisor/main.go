package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-advisor/internal/auth"
	"delivery-advisor/internal/config"
	"delivery-advisor/internal/db"
	httphandler "delivery-advisor/internal/http"
	"delivery-advisor/internal/http/middleware"
	"delivery-advisor/internal/line"
	"delivery-advisor/internal/logger"
	"delivery-advisor/internal/maps"
	"delivery-advisor/internal/ocr"
	"delivery-advisor/internal/postal"
	"delivery-advisor/internal/repository"
	"delivery-advisor/internal/service"
	"delivery-advisor/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	orderRepo := repository.NewOrderRepository(database)
	blacklistRepo := repository.NewBlacklistRepository(database)

	dir, err := postal.LoadDirectory(cfg.Postal.ZipcodeXLSXPath)
	if err != nil {
		appLogger.Warn().Err(err).Str("path", cfg.Postal.ZipcodeXLSXPath).
			Msg("zipcode directory unavailable, address city completion disabled")
		dir = nil
	} else {
		appLogger.Info().Int("roads", dir.Len()).Msg("zipcode directory loaded")
	}
	cleaner := postal.NewCleaner(dir)

	engine := ocr.NewEngine(cfg.OCR.Languages...)
	routes := maps.NewClient(cfg.Maps.APIKey)
	if cfg.Maps.APIKey == "" {
		appLogger.Warn().Msg("google maps api key not set, distance lookups disabled")
	}

	// Screenshot archive is optional.
	var archiver service.SnapshotArchiver
	screenshotStore, err := storage.NewScreenshotStoreFromEnv()
	if err != nil && !errors.Is(err, storage.ErrNotConfigured) {
		appLogger.Fatal().Err(err).Msg("failed to initialize screenshot store")
	}
	if err != nil {
		appLogger.Warn().Msg("R2 storage not configured, screenshot archiving disabled")
	} else {
		archiver = screenshotStore
	}

	lineClient := line.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelToken)
	if !lineClient.Enabled() {
		appLogger.Warn().Msg("line channel not configured, webhook disabled")
	}

	orderService := service.NewOrderService(
		orderRepo,
		blacklistRepo,
		engine,
		routes,
		cleaner,
		archiver,
		appLogger,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(orderService, lineClient, cfg, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, database, appLogger)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting delivery advisor")

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error().Err(err).Msg("failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited")
}
