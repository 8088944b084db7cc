// Package main provides the song persistence service entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/api/rest"
	"github.com/osa030/harmony/internal/infra/authn"
	"github.com/osa030/harmony/internal/infra/config"
	"github.com/osa030/harmony/internal/infra/logger"
	"github.com/osa030/harmony/internal/infra/store"
)

var (
	app        = kingpin.New("harmony-songsvc", "harmony song persistence service")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output:  "stdout",
		Level:   "info",
		Service: "harmony-songsvc",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateSongSvc(); err != nil {
		zlog.Fatal().Msgf("Invalid songsvc config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	svc := cfg.SongSvc

	if dir := filepath.Dir(svc.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	st, err := store.Open(svc.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	google := authn.NewGoogle(authn.GoogleConfig{
		ClientID:     svc.Google.ClientID,
		ClientSecret: svc.Google.ClientSecret,
		RedirectURL:  svc.Google.RedirectURL,
	})
	issuer := authn.NewIssuer(svc.JWTSecret, cfg.TokenTTL())

	api := rest.NewServer(st, google, issuer, rest.Config{
		FrontendURL:     svc.FrontendURL,
		CredentialParam: cfg.Auth.CredentialParam,
		IsAdminEmail:    cfg.IsAdminEmail,
	})

	server := &http.Server{
		Addr:              svc.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting songsvc: addr=%s database=%s", svc.Addr, svc.DatabasePath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Songsvc stopped")
	return nil
}
