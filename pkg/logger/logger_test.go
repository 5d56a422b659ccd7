package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "les-inventario", Output: buf})

	log.Named("movement_recorder").Info().Str("item_id", "item-1").Msg("movimiento registrado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "les-inventario", entry["service"])
	assert.Equal(t, "movement_recorder", entry["component"])
	assert.Equal(t, "item-1", entry["item_id"])
	assert.Equal(t, "movimiento registrado", entry["message"])
}

func TestNew_NivelFiltra(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "production", Level: "ruidoso", Output: buf})

	log.Debug().Msg("descartado")
	log.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "descartado")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Named("x").Error().Msg("nada") })
}
