package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		lvl, err := ParseLevel(name)
		assert.NoError(t, err)
		assert.Equal(t, want, lvl, name)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestSub(t *testing.T) {
	{ // Silent is a no-op regardless of the base
		core, logs := observer.New(zapcore.DebugLevel)
		l, err := Sub(zap.New(core), Silent)
		require.NoError(t, err)
		l.Error("dropped")
		assert.Equal(t, 0, logs.Len())
	}
	{ // The level floor is raised on top of the base
		core, logs := observer.New(zapcore.DebugLevel)
		l, err := Sub(zap.New(core), "warn")
		require.NoError(t, err)
		l.Info("dropped")
		l.Warn("kept")
		assert.Equal(t, 1, logs.Len())
		assert.Equal(t, "kept", logs.All()[0].Message)
	}
	{
		_, err := Sub(nil, "loud")
		assert.Error(t, err)
	}
}

func TestFileOutput(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logger_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	logFile := filepath.Join(tempDir, "mesh.log")
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
	require.NoError(t, InitWithFileConfig("info", cfg, false))
	Sugar.Debugf("not written %d", 1)
	Sugar.Infof("triangulated %d vertices", 4)
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "triangulated 4 vertices"))
	assert.False(t, strings.Contains(string(data), "not written"))
}
