// Package main runs the simulation server:
// - HTTP API: defaults, simulate, CSV and Markdown exports, block range queries
// - Websocket sessions that recompute on every parameter change
// - Health and Prometheus metrics endpoints
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"l2-da-lab/internal/api"
	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/config"
	"l2-da-lab/internal/logging"
	"l2-da-lab/internal/observability"
)

func main() {
	configPath := flag.String("config", os.Getenv("L2DA_CONFIG"), "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		logrus.WithError(err).Fatal("create logger")
	}
	log := logging.WithComponent(logger, "server")

	gin.SetMode(cfg.Server.GinMode)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := observability.NewMetrics(cfg.Metrics.Namespace, reg)
	var metricsHandler http.Handler = http.NotFoundHandler()
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	srv := api.NewServer(api.Options{
		Defaults:       cfg.Defaults,
		Source:         chaindata.NewPlaceholder(logging.WithComponent(logger, "chaindata")),
		Metrics:        m,
		MetricsHandler: metricsHandler,
		Logger:         logging.WithComponent(logger, "api"),
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("received signal, initiating graceful shutdown")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	// Websocket connections are hijacked; Shutdown does not wait for them.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}

	log.Info("shutdown complete")
}
