package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSONComponents(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{LogLevel: zerolog.DebugLevel, Type: JSONLogger, Output: &buf})

	Proof.Debug().Str("lane", "00000001").Msg("built")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "proof", entry["component"])
	assert.Equal(t, "00000001", entry["lane"])
	assert.Equal(t, "built", entry["message"])
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{LogLevel: zerolog.WarnLevel, Type: ConsoleLogger, Output: &buf})

	Finality.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	Finality.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "WARN")
}

func TestParseLoggerType(t *testing.T) {
	lt, err := ParseLoggerType("json")
	require.NoError(t, err)
	assert.Equal(t, JSONLogger, lt)

	lt, err = ParseLoggerType("")
	require.NoError(t, err)
	assert.Equal(t, ConsoleLogger, lt)

	_, err = ParseLoggerType("xml")
	assert.Error(t, err)
}
