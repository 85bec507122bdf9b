package utils

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/amirphl/card-transactions-generator/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFlags = log.LstdFlags | log.Lmicroseconds | log.LUTC

// NewLogger builds the process logger. File output rotates through lumberjack.
// The returned closer flushes and closes the rotating file, if any.
func NewLogger(cfg config.LoggingConfig, prefix string) (*log.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if cfg.Output == "stdout" || cfg.Output == "both" || cfg.Output == "" {
		writers = append(writers, os.Stdout)
	}
	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	return log.New(io.MultiWriter(writers...), prefix, logFlags), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
