package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitJSONComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Init(Config{}) })

	logger := Component("pipeline")
	logger.Debug().Str("template", "thank").Msg("rendered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "pipeline", entry["component"])
	require.Equal(t, "thank", entry["template"])
	require.Equal(t, "debug", entry["level"])
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Init(Config{}) })

	logger := Logger()
	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())
}

func TestInitRejectsBadConfig(t *testing.T) {
	require.Error(t, Init(Config{Level: "loud"}))
	require.Error(t, Init(Config{Format: "xml"}))
}
