package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/infrastructure/memory"
)

func createItem(t *testing.T, store *memory.Store, id string) {
	t.Helper()
	require.NoError(t, store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		return repos.Items.Create(context.Background(), &entity.InventoryItem{ID: id, ItemCode: "LD-2026-" + id, IsActive: true})
	}))
}

func TestRun_ErrorDescartaTodosLosCambios(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		ctx := context.Background()
		require.NoError(t, repos.Items.Create(ctx, &entity.InventoryItem{ID: "i1", ItemCode: "LD-1"}))
		require.NoError(t, repos.Movements.Create(ctx, &entity.InventoryMovement{ItemID: "i1"}))
		require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: "loc"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, err := store.Items().GetByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Nil(t, item)
	list, err := store.Movements().ListByItem(context.Background(), "i1")
	require.NoError(t, err)
	assert.Empty(t, list)
	loc, err := store.Locations().GetByID(context.Background(), "loc")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(inventory.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMovements_MarcasEstrictamenteCrecientes(t *testing.T) {
	store := memory.NewStore()
	createItem(t, store, "i1")

	require.NoError(t, store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		for i := 0; i < 50; i++ {
			if err := repos.Movements.Create(context.Background(), &entity.InventoryMovement{ItemID: "i1"}); err != nil {
				return err
			}
		}
		return nil
	}))

	list, err := store.Movements().ListByItem(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, list, 50)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt), "orden descendente estricto en %d", i)
		assert.Equal(t, list[i].CreatedAt, list[i].CreatedAt.Truncate(time.Microsecond))
	}
}

func TestMovements_PiezaInexistente(t *testing.T) {
	store := memory.NewStore()

	err := store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		return repos.Movements.Create(context.Background(), &entity.InventoryMovement{ItemID: "ghost"})
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovements_GetByIDDevuelveCopia(t *testing.T) {
	store := memory.NewStore()
	createItem(t, store, "i1")

	m := &entity.InventoryMovement{ItemID: "i1", Reason: "original"}
	require.NoError(t, store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		return repos.Movements.Create(context.Background(), m)
	}))
	require.NotEmpty(t, m.ID)

	got, err := store.Movements().GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	got.Reason = "alterado"

	again, err := store.Movements().GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Reason)
}

func TestItems_CodigoDuplicadoYSecuencia(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Items().Create(ctx, &entity.InventoryItem{ID: "a", ItemCode: "LD-2026-0007"}))
	require.NoError(t, store.Items().Create(ctx, &entity.InventoryItem{ID: "b", ItemCode: "LD-2025-0040"}))
	// Códigos importados a mano con sufijo no numérico: no cuentan para el secuencial
	require.NoError(t, store.Items().Create(ctx, &entity.InventoryItem{ID: "d", ItemCode: "LD-2026-00A1"}))
	require.NoError(t, store.Items().Create(ctx, &entity.InventoryItem{ID: "e", ItemCode: "LD-2026-+9999"}))

	assert.ErrorIs(t, store.Items().Create(ctx, &entity.InventoryItem{ID: "c", ItemCode: "LD-2026-0007"}), domain.ErrDuplicate)

	seq, err := store.Items().MaxCodeSequence(ctx, "LD-2026-")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)
}

func TestItems_UpdateDetailsConservaUbicacion(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	item := &entity.InventoryItem{ID: "a", ItemCode: "LD-1", Name: "Anillo"}
	entity.RestorePlacement(item, entity.ItemPlacement{LocationID: "loc_a", StatusID: "s1", LastMovementID: "m1"})
	require.NoError(t, store.Items().Create(ctx, item))

	edited := &entity.InventoryItem{ID: "a", ItemCode: "OTRO", Name: "Anillo grabado"}
	require.NoError(t, store.Items().UpdateDetails(ctx, edited))

	got, err := store.Items().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Anillo grabado", got.Name)
	assert.Equal(t, "LD-1", got.ItemCode)
	assert.Equal(t, "loc_a", got.LocationID())
	assert.Equal(t, "m1", got.Placement().LastMovementID)
}

func TestReservations_UnaActivaPorPieza(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.Reservations()

	require.NoError(t, repo.Create(ctx, &entity.Reservation{ID: "r1", ItemID: "i1", Status: entity.ReservationActive}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Reservation{ID: "r2", ItemID: "i1", Status: entity.ReservationActive}), domain.ErrDuplicate)

	now := time.Now().UTC()
	require.NoError(t, repo.Resolve(ctx, &entity.Reservation{ID: "r1", Status: entity.ReservationCancelled, ResolvedAt: &now}))
	require.NoError(t, repo.Create(ctx, &entity.Reservation{ID: "r2", ItemID: "i1", Status: entity.ReservationActive}))

	active, err := repo.GetActiveByItem(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "r2", active.ID)
}

func TestReservations_ListExpired(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.Reservations()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &entity.Reservation{ID: "old", ItemID: "i1", Status: entity.ReservationActive, ExpiryDate: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.Reservation{ID: "new", ItemID: "i2", Status: entity.ReservationActive, ExpiryDate: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.Reservation{ID: "done", ItemID: "i3", Status: entity.ReservationResolved, ExpiryDate: now.Add(-time.Hour)}))

	expired, err := repo.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].ID)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
