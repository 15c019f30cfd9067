package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability/implementation"
	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "HELLO"
	ServiceName = "hello-observability"

	// NodeIDFromHostname derives the snowflake node from the host name.
	NodeIDFromHostname int64 = -1
)

type Config struct {
	Server        ServerConfig          `mapstructure:"server"`
	Hello         HelloConfig           `mapstructure:"hello"`
	NodeID        int64                 `mapstructure:"node_id"`
	Observability implementation.Config `mapstructure:"observability"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	Mode              string        `mapstructure:"mode"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type HelloConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

// Load reads configuration with increasing precedence: defaults, config.yaml
// found in paths (or "." and "./config"), .env files, then HELLO_* variables.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loadDotEnv(paths)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %v: %w", err, apperror.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv never overrides variables that are already set in the process.
func loadDotEnv(paths []string) {
	for _, p := range paths {
		_ = godotenv.Load(filepath.Join(p, ".env"))
	}
}

func setDefaults(v *viper.Viper) {
	obs := implementation.DefaultConfig(ServiceName)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("hello.min_delay", 100*time.Millisecond)
	v.SetDefault("hello.max_delay", time.Second)

	v.SetDefault("node_id", NodeIDFromHostname)

	v.SetDefault("observability.service_name", obs.ServiceName)
	v.SetDefault("observability.service_version", obs.ServiceVersion)
	v.SetDefault("observability.metrics_addr", obs.MetricsAddr)
	v.SetDefault("observability.logger.name", obs.Logger.Name)
	v.SetDefault("observability.logger.level", obs.Logger.Level)
	v.SetDefault("observability.logger.dir", obs.Logger.Dir)
	v.SetDefault("observability.logger.file", obs.Logger.File)
	v.SetDefault("observability.logger.stdout", obs.Logger.Stdout)
	v.SetDefault("observability.tracing.exporter", string(obs.Tracing.Exporter))
	v.SetDefault("observability.tracing.endpoint", obs.Tracing.Endpoint)
	v.SetDefault("observability.tracing.insecure", obs.Tracing.Insecure)
	v.SetDefault("observability.tracing.sample_rate", obs.Tracing.SampleRate)
	v.SetDefault("observability.tracing.batch_timeout", obs.Tracing.BatchTimeout)
	v.SetDefault("observability.tracing.max_export_batch_size", obs.Tracing.MaxExportBatchSize)
	v.SetDefault("observability.tracing.max_queue_size", obs.Tracing.MaxQueueSize)
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required: %w", apperror.ErrInvalidConfig)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server.mode %q: %w", c.Server.Mode, apperror.ErrInvalidConfig)
	}
	if c.Hello.MinDelay < 0 {
		return fmt.Errorf("hello.min_delay must not be negative: %w", apperror.ErrInvalidConfig)
	}
	if c.Hello.MaxDelay < c.Hello.MinDelay {
		return fmt.Errorf("hello.max_delay %s is below hello.min_delay %s: %w", c.Hello.MaxDelay, c.Hello.MinDelay, apperror.ErrInvalidConfig)
	}
	if c.NodeID < NodeIDFromHostname || c.NodeID > 1023 {
		return fmt.Errorf("node_id must be -1 or within 0-1023, got %d: %w", c.NodeID, apperror.ErrInvalidConfig)
	}
	return c.Observability.Validate()
}
