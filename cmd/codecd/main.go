// Command codecd drives the Pamir AI soundcard's TLV320AIC3204 codec and
// exposes volume, input gain, and raw register access over HTTP.
// Run with --mock to use simulated hardware (no I2C device required).
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pamir-ai/aic3204-go/internal/api"
	"github.com/pamir-ai/aic3204-go/internal/auth"
	"github.com/pamir-ai/aic3204-go/internal/codec"
	"github.com/pamir-ai/aic3204-go/internal/config"
	"github.com/pamir-ai/aic3204-go/internal/events"
	"github.com/pamir-ai/aic3204-go/internal/hardware"
	"github.com/pamir-ai/aic3204-go/internal/models"
	"github.com/pamir-ai/aic3204-go/internal/zeroconf"
)

const version = "0.1.0"

func main() {
	var (
		mock      = flag.Bool("mock", false, "use mock hardware (no bus device required)")
		transport = flag.String("transport", "i2c", "bus transport: i2c or serial")
		dev       = flag.String("dev", "/dev/i2c-1", "bus device node (/dev/i2c-N or /dev/ttyUSBN)")
		addr      = flag.String("addr", ":8080", "HTTP listen address")
		cfgDir    = flag.String("config-dir", "", "config directory (default: ~/.config/codecd)")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Resolve config directory
	if *cfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*cfgDir = filepath.Join(home, ".config", "codecd")
	}
	if err := os.MkdirAll(*cfgDir, 0755); err != nil {
		slog.Error("cannot create config directory", "path", *cfgDir, "err", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Bus transport
	var bus hardware.Bus
	switch {
	case *mock:
		slog.Info("using mock bus")
		bus = hardware.NewMock()
	case *transport == "serial":
		slog.Info("using serial bridge transport", "dev", *dev)
		bus = hardware.NewSerialBridge(*dev)
	case *transport == "i2c":
		slog.Info("using I2C transport", "dev", *dev)
		bus = hardware.NewI2C(*dev)
	default:
		slog.Error("unknown transport", "transport", *transport)
		os.Exit(1)
	}
	if err := bus.Init(ctx); err != nil {
		slog.Error("bus initialization failed", "err", err)
		os.Exit(1)
	}
	defer bus.Close()

	// Config store and event bus
	store := config.NewJSONStore(*cfgDir)
	evBus := events.NewBus()

	// Codec session: init table, then stored levels
	ctrl := codec.New(bus, store, evBus)
	if err := ctrl.Attach(ctx); err != nil {
		slog.Error("codec attach failed", "err", err)
		os.Exit(1)
	}

	// Auth service
	authSvc, err := auth.NewService(*cfgDir)
	if err != nil {
		slog.Error("auth service initialization failed", "err", err)
		os.Exit(1)
	}
	defer authSvc.Close()

	// Zeroconf mDNS registration
	hostname, _ := os.Hostname()
	port := 8080
	if parts := strings.SplitN(*addr, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	zc := zeroconf.New(hostname, port)
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	info := models.Info{
		Model:      "pamir-ai-soundcard",
		Codec:      "TLV320AIC3204",
		Version:    version,
		Mock:       *mock,
		Transport:  *transport,
		ConfigPath: store.Path(),
	}
	router := api.NewRouter(ctrl, authSvc, evBus, info)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("codecd listening", "addr", *addr, "mock", *mock, "config", *cfgDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Flush pending level writes
	if err := store.Flush(); err != nil {
		slog.Warn("failed to flush levels", "err", err)
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}
