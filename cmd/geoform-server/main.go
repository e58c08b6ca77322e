package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-geoform/internal/app"
	"github.com/goliatone/go-geoform/internal/config"
	"github.com/goliatone/go-geoform/internal/logging"
)

func main() {
	configFile := flag.String("config", "", "config file (searches ./config.yaml and ./configs/config.yaml if empty)")
	flag.Parse()

	var options []config.Option
	if *configFile != "" {
		options = append(options, config.WithConfigFile(*configFile))
	}
	cfg, err := config.Load(options...)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot configure logging")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start")
	}
	defer application.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      application.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
