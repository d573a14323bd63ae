// Command mathink is the composition root: it builds the adapters and
// services and hands them to the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/mathink/internal/adapters/driven/config/file"
	prommetrics "github.com/custodia-labs/mathink/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/mathink/internal/adapters/driven/raster"
	"github.com/custodia-labs/mathink/internal/adapters/driven/recognizer/websocket"
	"github.com/custodia-labs/mathink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/mathink/internal/adapters/driving/cli"
	"github.com/custodia-labs/mathink/internal/core/ports/driven"
	"github.com/custodia-labs/mathink/internal/core/services"
	"github.com/custodia-labs/mathink/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir, err := file.DefaultDir()
	if err != nil {
		return fmt.Errorf("locating config directory: %w", err)
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer store.Close()

	var rasterizer driven.InkRasterizer
	if r, err := raster.NewRasterizer(); err != nil {
		logger.Warn("Previews disabled: %v", err)
	} else {
		rasterizer = r
	}

	var recognizer *websocket.Client
	if settings.Recognizer.IsConfigured() {
		recognizer, err = websocket.NewClient(settings.Recognizer)
		if err != nil {
			return fmt.Errorf("configuring recognizer: %w", err)
		}
		defer recognizer.Close()
	}

	recorder := prommetrics.NewRecorder(prometheus.DefaultRegisterer)

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)
	cli.SetSettingsService(settingsService)
	cli.SetSessionService(services.NewSessionService(store))
	cli.SetRasterizer(rasterizer)
	cli.SetEngineFactory(func(dispatcher driven.Dispatcher) (cli.Engine, error) {
		engine := services.NewInkManager(dispatcher, settings.Canvas)
		if recognizer != nil {
			engine.SetRecognizer(recognizer)
			engine.SetRecognitionTimeout(settings.Recognizer.Timeout)
		}
		engine.SetMetrics(recorder)
		engine.SetRasterizer(rasterizer)
		return engine, nil
	})
	cli.SetConfigWatcher(func(ctx context.Context, onChange func()) (func(), error) {
		watcher, err := file.NewWatcher(configStore, onChange)
		if err != nil {
			return nil, err
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return nil, err
		}
		return watcher.Stop, nil
	})

	return cli.Execute(ctx)
}
