// Package logging builds the zap logger used by the command line tool.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log level, the console encoding and an optional
// rotated log file.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // empty disables the file sink
}

// New builds a logger writing to stderr and, when opts.File is set, to a
// size-rotated JSON log file.
func New(opts Options) (*zap.Logger, error) {
	return newLogger(opts, os.Stderr)
}

func newLogger(opts Options, console io.Writer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
		level = l
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		c := encCfg
		c.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(c)
	case "json":
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, errors.Errorf("log format %q (want console or json)", opts.Format)
	}

	cores := []zapcore.Core{zapcore.NewCore(consoleEnc, zapcore.AddSync(console), level)}
	if opts.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileLogger), level))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
