package implementation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Config struct {
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`
	Logger         LoggerConfig  `mapstructure:"logger"`
	Tracing        TracingConfig `mapstructure:"tracing"`
}

type LoggerConfig struct {
	Name  string `mapstructure:"name"`
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
	File  string `mapstructure:"file"`
	// Stdout mirrors every line to standard output next to the log file.
	Stdout bool `mapstructure:"stdout"`
}

type TracingConfig struct {
	Exporter           ExporterType  `mapstructure:"exporter"`
	Endpoint           string        `mapstructure:"endpoint"`
	Insecure           bool          `mapstructure:"insecure"`
	SampleRate         float64       `mapstructure:"sample_rate"`
	BatchTimeout       time.Duration `mapstructure:"batch_timeout"`
	MaxExportBatchSize int           `mapstructure:"max_export_batch_size"`
	MaxQueueSize       int           `mapstructure:"max_queue_size"`
}

func DefaultConfig(serviceName string) Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.0.1",
		Logger: LoggerConfig{
			Name:   serviceName,
			Level:  "info",
			Dir:    "logs",
			File:   "app.log",
			Stdout: true,
		},
		Tracing: TracingConfig{
			Exporter:           ExporterOTLPHTTP,
			Endpoint:           "http://localhost:4318/v1/traces",
			Insecure:           true,
			SampleRate:         1.0,
			BatchTimeout:       5 * time.Second,
			MaxExportBatchSize: 512,
			MaxQueueSize:       2048,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("service_name is required: %w", apperror.ErrInvalidConfig)
	}
	if c.Logger.Dir == "" && !c.Logger.Stdout {
		return fmt.Errorf("logger needs a dir or stdout output: %w", apperror.ErrInvalidConfig)
	}
	if c.Logger.Dir != "" && c.Logger.File == "" {
		return fmt.Errorf("logger.file is required when logger.dir is set: %w", apperror.ErrInvalidConfig)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v: %w", c.Tracing.SampleRate, apperror.ErrInvalidConfig)
	}
	switch c.Tracing.Exporter {
	case ExporterOTLPHTTP, ExporterOTLPGRPC:
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required for exporter %q: %w", c.Tracing.Exporter, apperror.ErrInvalidConfig)
		}
	case ExporterConsole, ExporterNone:
	default:
		return fmt.Errorf("unknown tracing.exporter %q: %w", c.Tracing.Exporter, apperror.ErrInvalidConfig)
	}
	return nil
}

func NewObservability(cfg Config) (observability.Observability, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := NewZapLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	meter := NewPrometheusMeter(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracer, shutdown, err := NewOtelTracer(context.Background(), cfg.ServiceName, cfg.ServiceVersion, cfg.Tracing)
	if err != nil {
		return nil, err
	}

	return &observabilityImplementation{
		log:         log,
		meter:       meter,
		tracer:      tracer,
		metricsAddr: cfg.MetricsAddr,
		traceClose:  shutdown,
	}, nil
}
