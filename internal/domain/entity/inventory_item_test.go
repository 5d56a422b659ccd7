package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/domain/entity"
)

func TestApplyMovement_ActualizaUbicacionYEstado(t *testing.T) {
	item := &entity.InventoryItem{ID: "item-1"}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := item.ApplyMovement(&entity.InventoryMovement{
		ID: "mov-1", ItemID: "item-1", ToLocationID: "loc_a", ToStatusID: "stat_available", CreatedAt: at,
	})
	require.NoError(t, err)

	p := item.Placement()
	assert.Equal(t, "loc_a", p.LocationID)
	assert.Equal(t, "stat_available", p.StatusID)
	assert.Equal(t, "mov-1", p.LastMovementID)
	require.NotNil(t, p.LastMovementAt)
	assert.Equal(t, at, *p.LastMovementAt)
	assert.Equal(t, at, item.UpdatedAt)
	assert.Equal(t, "loc_a", item.LocationID())
	assert.Equal(t, "stat_available", item.StatusID())
}

func TestApplyMovement_RechazaMovimientosAjenos(t *testing.T) {
	at := time.Now()
	cases := map[string]*entity.InventoryMovement{
		"nil":           nil,
		"otra pieza":    {ID: "m", ItemID: "item-2", CreatedAt: at},
		"sin ID":        {ItemID: "item-1", CreatedAt: at},
		"sin CreatedAt": {ID: "m", ItemID: "item-1"},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			item := &entity.InventoryItem{ID: "item-1"}
			entity.RestorePlacement(item, entity.ItemPlacement{LocationID: "loc_a", StatusID: "s", LastMovementID: "prev"})

			assert.ErrorIs(t, item.ApplyMovement(m), entity.ErrPlacementMismatch)
			assert.Equal(t, "prev", item.Placement().LastMovementID, "la pieza no cambia")
		})
	}
}

func TestPlacement_EsUnaCopia(t *testing.T) {
	item := &entity.InventoryItem{ID: "item-1"}
	entity.RestorePlacement(item, entity.ItemPlacement{LocationID: "loc_a"})

	p := item.Placement()
	p.LocationID = "loc_b"
	assert.Equal(t, "loc_a", item.LocationID())
}

func TestMovement_CambiosDetectados(t *testing.T) {
	m := &entity.InventoryMovement{FromLocationID: "a", ToLocationID: "b", FromStatusID: "s", ToStatusID: "s"}
	assert.True(t, m.ChangesLocation())
	assert.False(t, m.ChangesStatus())
}

func TestCatalogosEstandar(t *testing.T) {
	now := time.Now()
	types := entity.BuiltinMovementTypes(now)
	ids := map[string]bool{}
	codes := map[string]bool{}
	for _, mt := range types {
		assert.False(t, ids[mt.ID])
		assert.False(t, codes[mt.Code])
		ids[mt.ID], codes[mt.Code] = true, true
	}
	assert.Len(t, types, 7)
	assert.Len(t, entity.DefaultOperationalStatuses(now), 3)

	assert.True(t, entity.ValidLocationType(entity.LocationTypeWorkshop))
	assert.False(t, entity.ValidLocationType("store"))
}
