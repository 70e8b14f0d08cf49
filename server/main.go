package server

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riyarao-9-12/collaborative-drawing/pkg/config"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/logger"
)

// mergeFlags applies the flags the user actually passed onto the loaded
// configuration. set holds the names reported by flag.Visit.
func mergeFlags(cfg *config.ServerConfig, set map[string]bool, addr, staticDir, logLevel, logFormat string) {
	if set["addr"] {
		cfg.Address = addr
	}
	if set["static"] {
		cfg.StaticDir = staticDir
	}
	if set["log-level"] {
		cfg.Logging.Level = logLevel
	}
	if set["log-format"] {
		cfg.Logging.Format = logFormat
	}
}

// Main is the server entry point
func Main() {
	addr := flag.String("addr", "", "Listen address (overrides config)")
	configPath := flag.String("config", "", "Config file path (optional)")
	staticDir := flag.String("static", "", "Static asset directory (overrides config)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger.Init(logger.LogLevel(*logLevel), *logFormat)
	log := logger.Get()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.ErrorWithErr("failed to load configuration", err)
		os.Exit(1)
	}

	// Explicitly set flags win over file and environment; a flag left at its
	// default must not mask a config file value.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	mergeFlags(cfg, set, *addr, *staticDir, *logLevel, *logFormat)

	logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format)
	log = logger.Get()

	log.InfoWith("configuration loaded", "config", cfg.String())

	srv, err := NewServer(cfg)
	if err != nil {
		log.ErrorWithErr("failed to create server", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errorChan := make(chan error, 1)
	go func() {
		errorChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		log.InfoWith("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.ErrorWithErr("error during shutdown", err)
		}

	case err := <-errorChan:
		if err != nil {
			log.ErrorWithErr("server stopped with error", err)
			os.Exit(1)
		}
	}
}
