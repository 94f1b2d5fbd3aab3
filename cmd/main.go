package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/climatewidget/internal/app"
	"github.com/tejusbharadwaj/climatewidget/internal/config"
	"github.com/tejusbharadwaj/climatewidget/internal/logging"
)

// Command climatewidget serves a climate dashboard whose temperature,
// humidity and last-update fields are refreshed by polling a JSON endpoint.
//
// The process also proxies the sensor API at /v1/climate/latest, which is
// what the widget polls by default, relays the camera websocket at
// /v1/stream/ws, and exposes /health-check, /metrics and a gRPC health service.
//
// Usage:
//
//	climatewidget [flags]
//
// The flags are:
//
//	-config string
//	      path to config file (default "config.yaml")
//	-port int
//	      HTTP server port, overrides server.port
//	-log-level string
//	      log level, overrides logging.level
func main() {
	// Parse command line flags
	flags := parseFlags()

	// Load configuration
	appConfig, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if flags.Port != 0 {
		appConfig.Server.Port = flags.Port
	}
	if flags.LogLevel != "" {
		appConfig.Logging.Level = flags.LogLevel
	}
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize structured logger
	logger, err := logging.New(appConfig.Logging, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"port":      appConfig.Server.Port,
		"grpc_port": appConfig.Server.GRPCPort,
	}).Info("Application starting up")

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, appConfig, logger, app.Listeners{}); err != nil {
		logger.Fatalf("Service error: %v", err)
	}

	logger.Info("Application shutting down")
}

type Flags struct {
	ConfigPath string
	Port       int
	LogLevel   string
}

func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "config.yaml", "Path to config file (empty for defaults)")
	flag.IntVar(&f.Port, "port", 0, "The HTTP server port")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	flag.Parse()

	return f
}
