package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Component("movement-engine").Info().Str("number", "REC-00001").Msg("documento validado")
	log.Debug().Msg("descartado por nivel")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "movement-engine", line["component"])
	assert.Equal(t, "REC-00001", line["number"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "documento validado", line["message"])
}

func TestLogger_Nop(t *testing.T) {
	log := logger.NewNop()
	assert.NotPanics(t, func() { log.Component("x").Error().Msg("nada") })
}
