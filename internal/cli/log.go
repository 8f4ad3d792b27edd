package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger returns a console logger writing to w, which is stderr in
// production so that stdout carries only command results. Info and above are
// logged; verbose adds debug, where the converter's output goes.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          timeKey(verbose),
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: "\t",
	})
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// Timestamps are logged in verbose mode only.
func timeKey(verbose bool) string {
	if verbose {
		return "ts"
	}
	return ""
}
