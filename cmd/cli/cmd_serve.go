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

	"github.com/Davidlouiz/passerelle-vhf/pkg/poller"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web console",
	Long:  `Start the web console. It talks to the gateway on behalf of the signed in operator.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port (env CONSOLE_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.CSRFKey == "" {
		logger.Warn("CONSOLE_CSRF_KEY is not set, using a random key: sessions end on restart")
	}

	// Setup Router
	routeManager, err := NewRouteManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize console: %w", err)
	}
	routeManager.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep a status snapshot for the health check and auto-refresh
	statusTask := poller.New("gateway-status", cfg.StatusInterval, routeManager.status.Refresh,
		poller.WithTimeout(cfg.Timeout),
		poller.WithLogger(logger),
	)
	statusTask.Start(ctx)

	addr := ":" + cfg.Port
	server := &http.Server{
		Handler:      routeManager.Handler(),
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Timeout + 10*time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutdown signal received")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting console",
		zap.String("addr", addr),
		zap.String("gateway", cfg.APIURL),
		zap.String("timezone", routeManager.loc.String()),
	)
	printSuccess("Console listening on http://localhost%s (gateway %s)", addr, cfg.APIURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
