package embedded

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, MemoryLocation, cfg.Directory)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Sequential)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())
}

func TestConfigNewLoggerJSON(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"

	var buf bytes.Buffer
	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("connection", "c1").Debug("opened")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "opened", entry["msg"])
	assert.Equal(t, "c1", entry["connection"])
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "", normalizeLocation(""))
	assert.Equal(t, "", normalizeLocation(" :memory: "))
	assert.Equal(t, "/data/db", normalizeLocation("/data/./db/"))
}
