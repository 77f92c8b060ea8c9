package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"fleet/internal/config"
)

func TestOutputStdoutWithoutFile(t *testing.T) {
	t.Parallel()

	if w := Output(config.LogConfig{}); w != os.Stdout {
		t.Errorf("expected stdout, got %T", w)
	}
}

func TestOutputWritesRotatedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	w := Output(config.LogConfig{File: path})
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestSetupLevel(t *testing.T) {
	cfg := &config.Config{Env: "production", Log: config.LogConfig{Level: "debug"}}
	Setup(cfg)

	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", logrus.GetLevel())
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter); !ok {
		t.Error("expected JSON formatter in production")
	}

	Setup(&config.Config{Log: config.LogConfig{Level: "bogus"}})
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info fallback, got %v", logrus.GetLevel())
	}
}
