package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigPresets(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)
	assert.Equal(t, "info", dev.Level)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, "stdout", prod.Output)
	assert.NotEmpty(t, prod.TimeFormat)
}

func TestNew(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"development defaults", DefaultConfig()},
		{"production defaults", ProductionConfig()},
		{"debug console", &Config{Level: "debug", Format: "console", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
		{"json to stderr", &Config{Level: "info", Format: "json", Output: "stderr", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			log, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"nonsense", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, parseLevel(tc.level), "level %q", tc.level)
	}
}

func TestWriterDestinations(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "STDOUT"} {
		cfg := &Config{Output: output}
		assert.NotNil(t, cfg.writer())
	}
}

func TestWriterFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "crm-log-*.log")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	cfg := &Config{Output: tmpFile.Name()}
	assert.NotNil(t, cfg.writer())
}

func TestEncoderSelection(t *testing.T) {
	console := &Config{Format: "console", TimeFormat: "2006-01-02T15:04:05Z07:00"}
	assert.NotNil(t, console.encoder())

	jsonCfg := &Config{Format: "json", TimeFormat: "2006-01-02T15:04:05Z07:00"}
	assert.NotNil(t, jsonCfg.encoder())
}

func TestJSONEntryShape(t *testing.T) {
	var buf bytes.Buffer

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
		}),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	log := zap.New(core)

	log.Info("customer created", zap.String("customer_id", "abc"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "customer created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["customer_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	encoderConfig := zapcore.EncoderConfig{
		LevelKey:    "level",
		MessageKey:  "msg",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}

	infoCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	log := zap.New(infoCore)

	log.Debug("filtered out")
	assert.Empty(t, buf.String())

	log.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}
