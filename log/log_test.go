package log_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0308/simple-chat-room-udp/log"
)

func TestLog(t *testing.T) {
	old := log.Default
	defer func() { log.Default = old }()
	log.Default = &noopLogger{}
	log.Debug("test")
	log.Debugf("test")
	log.Info("test")
	log.Infof("test")
	log.Warn("test")
	log.Warnf("test")
	log.Error("test")
	log.Errorf("test")
	log.Fatal("test")
	log.Fatalf("test")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "log.txt")
	l, err := log.New(log.Config{Level: "debug", File: path})
	require.Nil(t, err)
	l.Infof("server listening on %d", 8080)
	l.Debug("debug line")

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(data), "server listening on 8080")
	assert.Contains(t, string(data), "debug line")
}

func TestNewLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l, err := log.New(log.Config{Level: "warn", File: path})
	require.Nil(t, err)
	l.Info("hidden")
	l.Warn("shown")

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewBadLevel(t *testing.T) {
	_, err := log.New(log.Config{Level: "loud"})
	assert.NotNil(t, err)

	l, err := log.New(log.Config{})
	assert.Nil(t, err)
	assert.NotNil(t, l)
}

type noopLogger struct{}

func (*noopLogger) Debug(args ...any)                 {}
func (*noopLogger) Debugf(format string, args ...any) {}
func (*noopLogger) Info(args ...any)                  {}
func (*noopLogger) Infof(format string, args ...any)  {}
func (*noopLogger) Warn(args ...any)                  {}
func (*noopLogger) Warnf(format string, args ...any)  {}
func (*noopLogger) Error(args ...any)                 {}
func (*noopLogger) Errorf(format string, args ...any) {}
func (*noopLogger) Fatal(args ...any)                 {}
func (*noopLogger) Fatalf(format string, args ...any) {}
