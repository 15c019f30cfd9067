package implementation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logTimeLayout = "2006-01-02 15:04:05.000"

type zapLogger struct {
	l     *zap.Logger
	close func()
}

// NewZapLogger writes "<time> <LEVEL> [<name>]: <message>" lines to stdout
// and/or <Dir>/<File>. The directory is created if it does not exist.
func NewZapLogger(cfg LoggerConfig) (observability.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger.level %q: %w", cfg.Level, apperror.ErrInvalidConfig)
		}
		level = lvl
	}

	paths := make([]string, 0, 2)
	if cfg.Stdout {
		paths = append(paths, "stdout")
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", cfg.Dir, err)
		}
		paths = append(paths, filepath.Join(cfg.Dir, cfg.File))
	}

	sink, closeSink, err := zap.Open(paths...)
	if err != nil {
		return nil, fmt.Errorf("open log outputs: %w", err)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), sink, level)
	l := zap.New(core)
	if cfg.Name != "" {
		l = l.Named(cfg.Name)
	}

	return &zapLogger{l: l, close: closeSink}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "message",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(logTimeLayout),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.MillisDurationEncoder,
		EncodeName:       bracketNameEncoder,
		ConsoleSeparator: " ",
	}
}

func bracketNameEncoder(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + name + "]:")
}

func toZap(fields []observability.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(fields))

	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}

	return out
}

func (z *zapLogger) Debug(msg string, fields ...observability.Field) {
	z.l.Debug(msg, toZap(fields)...)
}

func (z *zapLogger) Error(msg string, fields ...observability.Field) {
	z.l.Error(msg, toZap(fields)...)
}

func (z *zapLogger) Fatal(msg string, fields ...observability.Field) {
	z.l.Fatal(msg, toZap(fields)...)
}

func (z *zapLogger) Info(msg string, fields ...observability.Field) {
	z.l.Info(msg, toZap(fields)...)
}

func (z *zapLogger) Warn(msg string, fields ...observability.Field) {
	z.l.Warn(msg, toZap(fields)...)
}

func (z *zapLogger) With(fields ...observability.Field) observability.Logger {
	return &zapLogger{
		l:     z.l.With(toZap(fields)...),
		close: z.close,
	}
}

func (z *zapLogger) Sync() error {
	return z.l.Sync()
}

// Close flushes buffered entries and releases the log file.
// Sync errors on stdout (e.g. when attached to a terminal) are ignored.
func (z *zapLogger) Close() error {
	_ = z.l.Sync()
	if z.close != nil {
		z.close()
	}
	return nil
}
