package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/domain/entity"
)

var seedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestParseLocations_UTF8ConCabecera(t *testing.T) {
	raw := []byte("id;nombre;tipo;dirección\n" +
		"loc_centro;Tienda Centro;store;Calle 10 # 4-20\n" +
		"loc_taller;Taller Principal;WORKSHOP\n")

	list, err := parseLocations(raw, seedNow)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "loc_centro", list[0].ID)
	assert.Equal(t, entity.LocationTypeStore, list[0].Type, "el tipo se normaliza a mayúsculas")
	assert.Equal(t, "Calle 10 # 4-20", list[0].Address)
	assert.True(t, list[0].IsActive)
	assert.Equal(t, seedNow, list[0].CreatedAt)
	assert.Empty(t, list[1].Address)
}

func TestParseLocations_Latin1(t *testing.T) {
	// "Almacén Norte" en ISO-8859-1: é = 0xE9
	raw := []byte("loc_norte;Almac\xe9n Norte;OTHER\n")

	list, err := parseLocations(raw, seedNow)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Almacén Norte", list[0].Name)
}

func TestParseLocations_Errores(t *testing.T) {
	cases := map[string]string{
		"tipo inválido":  "loc_a;Tienda;VITRINA\n",
		"sin nombre":     "loc_a;;STORE\n",
		"id repetido":    "loc_a;Tienda;STORE\nloc_a;Otra;STORE\n",
		"pocas columnas": "loc_a;Tienda\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseLocations([]byte(raw), seedNow)
			assert.Error(t, err)
		})
	}
}
