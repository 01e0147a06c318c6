package logger

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the JSON logger shared by the api, worker and CLI binaries.
// Each line carries ts (RFC3339Nano in loc), level and msg, matching the request log middleware.
func New(level string, loc *time.Location) *zap.Logger {
	return NewWithWriter(os.Stdout, level, loc)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, level string, loc *time.Location) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(EncoderConfig(loc)),
		zapcore.AddSync(w),
		ParseLevel(level),
	)
	return zap.New(core, zap.AddCaller())
}

// EncoderConfig returns the encoder settings used by every core in this module.
func EncoderConfig(loc *time.Location) zapcore.EncoderConfig {
	if loc == nil {
		loc = time.UTC
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.MessageKey = "msg"
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
	return cfg
}

// ParseLevel maps a level name to a zap level; unknown names fall back to info.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
