// Package config loads inklude configuration from an optional YAML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/inklude/internal/suggest"
)

// Config holds the complete inklude configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Analysis      AnalysisConfig      `koanf:"analysis"`
	NeoPronouns   NeoPronounConfig    `koanf:"neopronouns"`
	Admin         AdminConfig         `koanf:"admin"`
	Logging       LoggingConfig       `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimit is the sustained analyze requests per second per client.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
	// BodyLimit is an echo size string such as "2M".
	BodyLimit string `koanf:"body_limit"`
}

// AnalysisConfig bounds analysis requests.
type AnalysisConfig struct {
	MaxTextLength int    `koanf:"max_text_length"`
	MaxBatchSize  int    `koanf:"max_batch_size"`
	BatchWorkers  int    `koanf:"batch_workers"`
	DefaultTone   string `koanf:"default_tone"`
	// ExtraNames extends the annotator's given-name list.
	ExtraNames []string `koanf:"extra_names"`
}

// NeoPronounConfig locates the community seed file.
type NeoPronounConfig struct {
	SeedFile string `koanf:"seed_file"`
	Watch    bool   `koanf:"watch"`
}

// AdminConfig holds the key guarding moderation endpoints. Approval is
// disabled while the key is unset.
type AdminConfig struct {
	APIKey Secret `koanf:"api_key"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level       string `koanf:"level"`
	Format      string `koanf:"format"`
	Development bool   `koanf:"development"`
}

// ObservabilityConfig holds OpenTelemetry configuration.
type ObservabilityConfig struct {
	EnableTelemetry bool    `koanf:"enable_telemetry"`
	ServiceName     string  `koanf:"service_name"`
	Endpoint        string  `koanf:"endpoint"`
	Protocol        string  `koanf:"protocol"`
	Insecure        bool    `koanf:"insecure"`
	SampleRate      float64 `koanf:"sample_rate"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.RateLimit <= 0 {
		return errors.New("rate limit must be positive")
	}
	if c.Server.RateBurst <= 0 {
		return errors.New("rate burst must be positive")
	}

	if c.Analysis.MaxTextLength <= 0 {
		return errors.New("max text length must be positive")
	}
	if c.Analysis.MaxBatchSize <= 0 {
		return errors.New("max batch size must be positive")
	}
	if c.Analysis.BatchWorkers <= 0 {
		return errors.New("batch workers must be positive")
	}
	if _, ok := suggest.ParseTone(c.Analysis.DefaultTone); !ok {
		return fmt.Errorf("unknown default tone %q", c.Analysis.DefaultTone)
	}

	if c.NeoPronouns.Watch && c.NeoPronouns.SeedFile == "" {
		return errors.New("neopronouns.watch requires neopronouns.seed_file")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Observability.EnableTelemetry {
		if c.Observability.ServiceName == "" {
			return errors.New("service name required when telemetry is enabled")
		}
		switch c.Observability.Protocol {
		case "grpc", "http":
		default:
			return fmt.Errorf("observability protocol must be 'grpc' or 'http', got %q", c.Observability.Protocol)
		}
		if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
			return fmt.Errorf("sample rate must be within [0, 1], got %v", c.Observability.SampleRate)
		}
	}

	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 10
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 20
	}
	if cfg.Server.BodyLimit == "" {
		cfg.Server.BodyLimit = "2M"
	}

	if cfg.Analysis.MaxTextLength == 0 {
		cfg.Analysis.MaxTextLength = 50000
	}
	if cfg.Analysis.MaxBatchSize == 0 {
		cfg.Analysis.MaxBatchSize = 50
	}
	if cfg.Analysis.BatchWorkers == 0 {
		cfg.Analysis.BatchWorkers = 4
	}
	if cfg.Analysis.DefaultTone == "" {
		cfg.Analysis.DefaultTone = string(suggest.ToneGentle)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "inklude"
	}
	if cfg.Observability.Endpoint == "" {
		cfg.Observability.Endpoint = "localhost:4317"
	}
	if cfg.Observability.Protocol == "" {
		cfg.Observability.Protocol = "grpc"
	}
	if cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}
}
