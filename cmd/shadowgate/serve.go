package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/shadowgate/internal/backup"
	"github.com/groblegark/shadowgate/internal/bridge"
	"github.com/groblegark/shadowgate/internal/config"
	"github.com/groblegark/shadowgate/internal/gateway"
	"github.com/groblegark/shadowgate/internal/store"
	"github.com/groblegark/shadowgate/internal/store/local"
	"github.com/groblegark/shadowgate/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the interception gateway",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.UpstreamURL == "" {
			return fmt.Errorf("SHADOWGATE_UPSTREAM_URL is required")
		}
		upstream, err := url.Parse(cfg.UpstreamURL)
		if err != nil {
			return fmt.Errorf("SHADOWGATE_UPSTREAM_URL: %w", err)
		}

		// Open the store: Postgres when configured, local file otherwise.
		var st store.Store
		if cfg.DatabaseURL != "" {
			st, err = postgres.New(cfg.DatabaseURL)
		} else {
			st, err = local.New(cfg.DBPath)
		}
		if err != nil {
			return err
		}

		// Pick the bus: NATS when configured, in-process otherwise.
		var bus bridge.Bus
		if cfg.NATSURL != "" {
			nb, err := bridge.NewNATSBus(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			bus = nb
			logger.Info("bridge enabled", "nats_url", cfg.NATSURL)
		} else {
			bus = bridge.NewInprocBus()
			logger.Info("bridge is in-process (SHADOWGATE_NATS_URL not set)")
		}

		gw := gateway.New(upstream, bus, gateway.WithLogger(logger))

		// Warm the static cache and retire stale generations. Install
		// failure is not fatal; the gateway falls through to the upstream.
		installCtx, cancelInstall := context.WithTimeout(context.Background(), 30*time.Second)
		if err := gw.Install(installCtx); err != nil {
			logger.Warn("static cache install failed, serving upstream-first", "err", err)
		}
		cancelInstall()
		gw.Activate()

		// Answer mirror fallback queries from the store so API routes
		// resolve even before any page context publishes a sync.
		cancelResponder, err := bus.Respond(bridge.TopicProjectsRequest, func([]byte) ([]byte, error) {
			gates, err := st.List(context.Background())
			if err != nil {
				return nil, err
			}
			return json.Marshal(bridge.NewProjectsSync(gates))
		})
		if err != nil {
			bus.Close()
			st.Close()
			return err
		}

		// Seed the mirror with the current list.
		if gates, err := st.List(context.Background()); err == nil {
			if err := bus.Publish(context.Background(), bridge.TopicProjectsSync, bridge.NewProjectsSync(gates)); err != nil {
				logger.Warn("initial mirror sync failed", "err", err)
			}
		}

		// Run the mirror's message loop.
		runCtx, cancelRun := context.WithCancel(context.Background())
		go func() {
			if err := gw.Run(runCtx); err != nil && err != context.Canceled {
				logger.Error("gateway message loop error", "err", err)
			}
		}()

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: gw,
		}
		go func() {
			logger.Info("gateway listening", "addr", cfg.HTTPAddr, "upstream", cfg.UpstreamURL)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the backup scheduler if any destinations are configured.
		var scheduler *backup.Scheduler
		if cfg.BackupInterval > 0 {
			var dests []backup.Destination

			if cfg.BackupS3Bucket != "" {
				s3Dest, err := backup.NewS3Destination(
					context.Background(),
					cfg.BackupS3Bucket,
					cfg.BackupS3Key,
					cfg.BackupS3Region,
					cfg.BackupS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 backup destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("backup S3 destination enabled", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key)
				}
			}

			if cfg.BackupGitRepo != "" {
				gitDest := backup.NewGitDestination(cfg.BackupGitRepo, cfg.BackupGitFile, cfg.BackupGitBranch)
				dests = append(dests, gitDest)
				logger.Info("backup git destination enabled", "repo", cfg.BackupGitRepo, "file", cfg.BackupGitFile)
			}

			if len(dests) > 0 {
				scheduler = backup.NewScheduler(st, dests, cfg.BackupInterval, logger)
				scheduler.Start()
				logger.Info("backup scheduler started", "interval", cfg.BackupInterval)
			}
		}

		logger.Info("shadowgate started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		cancelResponder()
		cancelRun()

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := bus.Close(); err != nil {
			logger.Error("error closing bus", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
