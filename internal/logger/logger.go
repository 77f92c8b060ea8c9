package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	"fleet/internal/config"
)

// Setup configures the standard logrus logger: JSON in production, text
// otherwise, and a rotated file next to stdout when LOG_FILE is set.
func Setup(cfg *config.Config) {
	logrus.SetOutput(Output(cfg.Log))

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
		logrus.WithField("level", cfg.Log.Level).Warn("unknown log level, falling back to info")
	}
	logrus.SetLevel(level)
}

// Output returns stdout, tee'd into a lumberjack rotator when a file is configured.
func Output(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotator)
}
