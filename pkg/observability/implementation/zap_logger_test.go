package implementation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLogLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestZapLogger(t *testing.T) {
	t.Run("writes timestamp, level and bracketed name before the message", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		log, err := NewZapLogger(LoggerConfig{Name: "hello-observability", Level: "info", Dir: dir, File: "app.log"})
		require.NoError(t, err)

		log.Info("/hello delay=0.123s duration=0.125s")
		require.NoError(t, log.(*zapLogger).Close())

		lines := readLogLines(t, filepath.Join(dir, "app.log"))
		require.Len(t, lines, 1)
		pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} INFO \[hello-observability\]: /hello delay=0\.123s duration=0\.125s$`)
		assert.Regexp(t, pattern, lines[0])
	})

	t.Run("creates the log directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "logs")
		_, err := NewZapLogger(LoggerConfig{Name: "svc", Dir: dir, File: "app.log"})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("fields and With are appended after the message", func(t *testing.T) {
		dir := t.TempDir()
		log, err := NewZapLogger(LoggerConfig{Name: "svc", Dir: dir, File: "app.log"})
		require.NoError(t, err)

		log.With(observability.String("component", "router")).
			Error("unhandled error", observability.Err(errors.New("boom")))
		require.NoError(t, log.(*zapLogger).Close())

		lines := readLogLines(t, filepath.Join(dir, "app.log"))
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "ERROR [svc]: unhandled error")
		assert.Contains(t, lines[0], `"component": "router"`)
		assert.Contains(t, lines[0], `"error": "boom"`)
	})

	t.Run("entries below the level are dropped", func(t *testing.T) {
		dir := t.TempDir()
		log, err := NewZapLogger(LoggerConfig{Name: "svc", Level: "warn", Dir: dir, File: "app.log"})
		require.NoError(t, err)

		log.Info("hidden")
		log.Warn("shown")
		require.NoError(t, log.(*zapLogger).Close())

		lines := readLogLines(t, filepath.Join(dir, "app.log"))
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "WARN [svc]: shown")
	})

	t.Run("unknown level is a config error", func(t *testing.T) {
		_, err := NewZapLogger(LoggerConfig{Level: "chatty", Stdout: true})
		assert.ErrorIs(t, err, apperror.ErrInvalidConfig)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig("hello-observability").Validate())
	})

	cases := map[string]func(c *Config){
		"empty service name":  func(c *Config) { c.ServiceName = " " },
		"no log output":       func(c *Config) { c.Logger.Dir = ""; c.Logger.Stdout = false },
		"dir without file":    func(c *Config) { c.Logger.File = "" },
		"sample rate above 1": func(c *Config) { c.Tracing.SampleRate = 1.5 },
		"unknown exporter":    func(c *Config) { c.Tracing.Exporter = "zipkin" },
		"otlp without target": func(c *Config) { c.Tracing.Endpoint = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig("hello-observability")
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), apperror.ErrInvalidConfig)
		})
	}
}

func TestNewObservability(t *testing.T) {
	cfg := DefaultConfig("hello-test")
	cfg.Logger.Dir = t.TempDir()
	cfg.Logger.Stdout = false
	cfg.Tracing.Exporter = ExporterNone

	obs, err := NewObservability(cfg)
	require.NoError(t, err)
	require.NoError(t, obs.Start(context.Background()))

	assert.NotNil(t, obs.Logger())
	assert.NotNil(t, obs.Tracer())
	assert.NotNil(t, PromRegistry(obs.Meter()))

	require.NoError(t, obs.Close(context.Background()))
}
