package cli

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/stashtrack/internal/config"
	"github.com/mossline/stashtrack/internal/engine"
	"github.com/mossline/stashtrack/internal/server"
	"github.com/mossline/stashtrack/internal/store"
	"github.com/mossline/stashtrack/internal/strains"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var catalog *strains.Catalog
	if cfg.StrainCatalog != "" {
		catalog, err = strains.LoadFile(cfg.StrainCatalog)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.StrainCatalog).Msg("strain catalog not loaded")
			catalog = nil
		} else {
			log.Info().Int("strains", catalog.Len()).Msg("strain catalog loaded")
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	srv := server.New(db, catalog, engine.DefaultConfig(), rng, log, VersionString())
	srv.SetDefaultDailyLimit(cfg.DefaultDailyLimitMg)
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Str("db", dbPath).Msg("stashtrack serving")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-done
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
