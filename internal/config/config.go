// Package config handles loading and validating the synaplan-tts configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the synaplan-tts daemon.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Voices    VoicesConfig    `mapstructure:"voices"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the HTTP API and health probe server settings.
type ServerConfig struct {
	Port       int `mapstructure:"port"`
	HealthPort int `mapstructure:"health_port"`
}

// GRPCConfig configures the optional gRPC health-checking endpoint.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// VoicesConfig holds voice discovery and request validation settings.
type VoicesConfig struct {
	// Dir is scanned at startup for .onnx / .onnx.json model pairs.
	Dir string `mapstructure:"dir"`

	// Default is the voice used when a request names neither a voice
	// nor a language.
	Default string `mapstructure:"default"`

	// MaxTextLength bounds request text, in characters.
	MaxTextLength int `mapstructure:"max_text_length"`
}

// SynthesisConfig bounds the worker pool in front of the engine.
type SynthesisConfig struct {
	// Workers is the fixed number of concurrent synthesis calls.
	Workers int `mapstructure:"workers"`

	// QueueDepth bounds waiting jobs; beyond it submissions fail busy.
	QueueDepth int `mapstructure:"queue_depth"`

	// Timeout is the maximum duration of one synthesis job.
	Timeout time.Duration `mapstructure:"timeout"`

	// ConcurrentVoiceCalls relaxes the serialize-per-voice default.
	// Enable only if the engine is proven safe for concurrent calls on
	// the same model.
	ConcurrentVoiceCalls bool `mapstructure:"concurrent_voice_calls"`

	// PiperBinary is the path or name of the piper executable.
	PiperBinary string `mapstructure:"piper_binary"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./synaplan-tts.yaml, ./configs/synaplan-tts.yaml,
// /etc/synaplan-tts/synaplan-tts.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 10200)
	v.SetDefault("server.health_port", 10201)
	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.port", 50052)
	v.SetDefault("voices.dir", "/voices")
	v.SetDefault("voices.default", "en_US-lessac-medium")
	v.SetDefault("voices.max_text_length", 5000)
	v.SetDefault("synthesis.workers", 4)
	v.SetDefault("synthesis.queue_depth", 32)
	v.SetDefault("synthesis.timeout", "60s")
	v.SetDefault("synthesis.concurrent_voice_calls", false)
	v.SetDefault("synthesis.piper_binary", "piper")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("synaplan-tts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/synaplan-tts")
	}

	// Environment variables: SYNAPLAN_SERVER_PORT, SYNAPLAN_VOICES_DIR, etc.
	v.SetEnvPrefix("SYNAPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
