// Synaplan-tts is a multi-language text-to-speech HTTP daemon that wraps
// on-disk Piper voice models and serves synthesized WAV audio.
//
// Usage:
//
//	synaplan-tts [flags]
//	synaplan-tts --config /path/to/synaplan-tts.yaml
//
// @title       Synaplan TTS
// @version     1.0
// @description Multi-language text-to-speech API powered by Piper
// @BasePath    /
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/synaplan/synaplan-tts/internal/config"
	"github.com/synaplan/synaplan-tts/internal/grpchealth"
	"github.com/synaplan/synaplan-tts/internal/health"
	"github.com/synaplan/synaplan-tts/internal/server"
	"github.com/synaplan/synaplan-tts/internal/synth"
	"github.com/synaplan/synaplan-tts/internal/voice"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/synaplan-tts.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("synaplan-tts %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("synaplan-tts starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Discover voices. An unreadable directory is the only fatal load
	// failure; individual broken model pairs are skipped inside Load.
	registry, err := voice.Load(cfg.Voices.Dir)
	if err != nil {
		slog.Error("failed to load voice registry", "dir", cfg.Voices.Dir, "error", err)
		os.Exit(1)
	}
	if registry.IsEmpty() {
		slog.Warn("no voices loaded — place .onnx + .onnx.json files in the voices directory",
			"dir", cfg.Voices.Dir)
	} else {
		slog.Info("voices ready", "count", registry.Len(), "voices", registry.IDs())
	}

	// Build the synthesis pipeline: subprocess engine behind a bounded
	// worker pool.
	engine := synth.NewPiperEngine(cfg.Synthesis.PiperBinary)
	scheduler := synth.New(engine, registry, synth.Config{
		Workers:              cfg.Synthesis.Workers,
		QueueDepth:           cfg.Synthesis.QueueDepth,
		Timeout:              cfg.Synthesis.Timeout,
		ConcurrentVoiceCalls: cfg.Synthesis.ConcurrentVoiceCalls,
	})
	scheduler.Start(ctx)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort, registry)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Optional gRPC health endpoint for gRPC-native probes.
	var grpcHealth *grpchealth.Server
	if cfg.GRPC.Enabled {
		grpcHealth = grpchealth.New(cfg.GRPC.Port)
		go func() {
			if err := grpcHealth.ListenAndServe(ctx); err != nil {
				slog.Error("grpc health server failed", "error", err)
			}
		}()
	}

	// Start the API server.
	api := server.New(cfg.Server.Port, registry, scheduler, cfg.Voices.Default, cfg.Voices.MaxTextLength)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := api.ListenAndServe(ctx); err != nil {
			slog.Error("api server failed", "error", err)
			cancel()
		}
	}()

	// Mark as ready once everything is listening.
	healthServer.SetReady(true)
	if grpcHealth != nil {
		grpcHealth.SetServing(!registry.IsEmpty())
	}
	slog.Info("synaplan-tts ready",
		"port", cfg.Server.Port,
		"health_port", cfg.Server.HealthPort,
		"workers", cfg.Synthesis.Workers,
		"default_voice", cfg.Voices.Default)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	if err := api.Close(); err != nil {
		slog.Error("api close error", "error", err)
	}

	wg.Wait()
	scheduler.Wait()
	slog.Info("synaplan-tts stopped")
}
