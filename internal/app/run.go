package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/tejusbharadwaj/climatewidget/internal/api"
	"github.com/tejusbharadwaj/climatewidget/internal/config"
	server "github.com/tejusbharadwaj/climatewidget/internal/grpc"
	"github.com/tejusbharadwaj/climatewidget/internal/httpapi"
	"github.com/tejusbharadwaj/climatewidget/internal/metrics"
	"github.com/tejusbharadwaj/climatewidget/internal/page"
	"github.com/tejusbharadwaj/climatewidget/internal/render"
	"github.com/tejusbharadwaj/climatewidget/internal/scheduler"
	"github.com/tejusbharadwaj/climatewidget/internal/widget"
)

const shutdownTimeout = 10 * time.Second

// Listeners lets callers bind sockets up front, e.g. on port 0 in tests.
// Nil listeners are opened from the config addresses.
type Listeners struct {
	HTTP net.Listener
	GRPC net.Listener
}

// Run serves the dashboard and drives the widget until ctx is cancelled or a
// server fails.
func Run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, lis Listeners) error {
	logger.WithFields(logrus.Fields{
		"http_addr":       cfg.Server.Addr(),
		"grpc_addr":       cfg.Server.GRPCAddr(),
		"upstream_url":    cfg.Upstream.URL,
		"widget_url":      cfg.Widget.URL,
		"widget_interval": cfg.Widget.Interval.String(),
		"widget_schedule": cfg.Widget.Schedule,
		"camera_url":      cfg.Stream.CameraURL,
	}).Info("Config loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// The page must be loaded and its slots bound before the widget starts.
	dashboard, err := page.LoadDefault()
	if err != nil {
		return err
	}
	renderer, err := render.NewSlotRenderer(dashboard)
	if err != nil {
		return fmt.Errorf("failed to bind widget slots: %w", err)
	}

	health := server.NewHealthChecker()
	sched, err := newScheduler(cfg.Widget, logger)
	if err != nil {
		return err
	}
	climateWidget, err := widget.NewClimateWidget(
		api.NewClimateFetcher(cfg.Widget.URL, api.WithTimeout(cfg.Widget.Timeout)),
		renderer,
		widget.WithScheduler(sched),
		widget.WithLogger(logger),
		widget.WithMetrics(m),
		widget.WithPollObserver(health.ObservePoll),
	)
	if err != nil {
		return err
	}

	streams := httpapi.NewConnectionManager(m.StreamConns, logger)
	relay := httpapi.NewStreamController(
		api.NewCameraDialer(cfg.Stream.CameraURL),
		streams,
		httpapi.StreamConfig{
			MaxReconnectAttempts: cfg.Stream.MaxReconnectAttempts,
			ReconnectDelay:       cfg.Stream.ReconnectDelay,
			FrameInterval:        cfg.Stream.FrameInterval,
		},
		logger,
	)

	router := httpapi.NewRouter(
		httpapi.ServerConfig{
			Addr:           cfg.Server.Addr(),
			RateLimit:      cfg.Server.RateLimit,
			RateLimitBurst: cfg.Server.RateLimitBurst,
		},
		httpapi.Deps{
			Page:     dashboard,
			Upstream: api.NewClimateFetcher(cfg.Upstream.URL, api.WithTimeout(cfg.Upstream.Timeout)),
			Stream:   relay,
			Metrics:  m,
			Gatherer: registry,
			Logger:   logger,
		},
	)
	httpServer := httpapi.NewServer(httpapi.ServerConfig{Addr: cfg.Server.Addr()}, router)
	grpcServer := server.NewServer(health, logger)

	if lis.HTTP == nil {
		if lis.HTTP, err = net.Listen("tcp", cfg.Server.Addr()); err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
	}
	if lis.GRPC == nil {
		if lis.GRPC, err = net.Listen("tcp", cfg.Server.GRPCAddr()); err != nil {
			lis.HTTP.Close()
			return fmt.Errorf("failed to listen: %w", err)
		}
	}

	errChan := make(chan error, 2)

	go func() {
		logger.WithField("addr", lis.HTTP.Addr().String()).Info("Starting HTTP server")
		if err := httpServer.Serve(lis.HTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", lis.GRPC.Addr().String()).Info("Starting gRPC health server")
		if err := grpcServer.Serve(lis.GRPC); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("grpc server error: %w", err)
		}
	}()

	task, err := climateWidget.Start(ctx)
	if err != nil {
		grpcServer.Stop()
		httpServer.Close()
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Context canceled, initiating shutdown")
	case runErr = <-errChan:
		logger.WithError(runErr).Error("Server failed, initiating shutdown")
	}

	task.Stop()
	health.Shutdown()

	logger.Info("Gracefully stopping servers...")
	grpcServer.GracefulStop()
	streams.CloseAll("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("Servers stopped")

	return runErr
}

func newScheduler(cfg config.WidgetConfig, logger *logrus.Logger) (*scheduler.Scheduler, error) {
	if cfg.Schedule != "" {
		return scheduler.NewCronScheduler(cfg.Schedule, logger)
	}
	return scheduler.NewScheduler(cfg.Interval, logger)
}
