package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("info", buf)

	log.Debug("hidden")
	log.Info("shown")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
}

func TestLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("nonsense", buf)

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerWithField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("info", buf)

	log.WithField("component", "test_component").Info("message with field")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test_component", entry["component"])
	assert.Equal(t, "message with field", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestLoggerWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("info", buf)

	log.WithFields(map[string]interface{}{
		"service": "weather-store",
		"port":    8080,
	}).Infof("started on %d", 8080)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "weather-store", entry["service"])
	assert.Equal(t, float64(8080), entry["port"])
	assert.Equal(t, "started on 8080", entry["msg"])
}

func TestNewReturnsUsableLogger(t *testing.T) {
	log := New("debug", "production")
	require.NotNil(t, log)

	log = New("info", "development")
	require.NotNil(t, log)
}
