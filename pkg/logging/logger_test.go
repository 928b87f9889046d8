package logging

import (
	"os"
	"path/filepath"
	"testing"

	"mapposter/pkg/config"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	requestLog := filepath.Join(tempDir, "requests.log")

	cfg := &config.LogConfig{
		Server: config.LogSettings{
			Path:  serverLog,
			Level: "DEBUG",
		},
		Requests: config.LogSettings{
			Path:  requestLog,
			Level: "INFO",
		},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(serverLog); os.IsNotExist(err) {
		t.Error("Server log file not created")
	}
	if _, err := os.Stat(requestLog); os.IsNotExist(err) {
		t.Error("Request log file not created")
	}

	if RequestLogger == nil {
		t.Error("RequestLogger not initialized")
	}
}

func TestRotation(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "server.log")

	if err := os.WriteFile(logPath, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rotatePaths(logPath)

	old, err := os.ReadFile(logPath + ".old")
	if err != nil {
		t.Fatalf("expected rotated .old file: %v", err)
	}
	if string(old) != "previous run\n" {
		t.Errorf("rotated content mismatch: %q", old)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("current log should be moved aside by rotation")
	}
}
