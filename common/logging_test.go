package common

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := SetupLogger(&LoggingOpts{JSON: true, Service: "intersight", Version: "v1", Output: &buf})

	log.Info("hello", "assets", 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "intersight", entry["service"])
	require.Equal(t, "v1", entry["version"])
	require.EqualValues(t, 2, entry["assets"])
}

func TestSetupLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := SetupLogger(&LoggingOpts{Output: &buf})
	log.Debug("hidden")
	require.Empty(t, buf.String())

	log = SetupLogger(&LoggingOpts{Debug: true, Output: &buf})
	log.Debug("shown")
	require.Contains(t, buf.String(), "shown")
}
