package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_TrasladoActualizaPiezaYLibro(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Anillo solitario")

	id, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeTransfer,
		ToLocationID:     locWorkshop,
		Reason:           "Ajuste de talla",
		PerformedBy:      testUser,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored := f.item(t, item.ID)
	assert.Equal(t, locWorkshop, stored.LocationID())
	assert.Equal(t, entity.StatusAvailable, stored.StatusID(), "el estado no cambia si no se indica")

	list := f.movements(t, item.ID)
	require.Len(t, list, 2, "CREATE + TRANSFER")
	mov := list[0]
	assert.Equal(t, id, mov.ID)
	assert.Equal(t, entity.MovementCodeTransfer, mov.MovementTypeCode)
	assert.Equal(t, locStore, mov.FromLocationID)
	assert.Equal(t, locWorkshop, mov.ToLocationID)
	assert.Equal(t, entity.StatusAvailable, mov.FromStatusID)
	assert.Equal(t, entity.StatusAvailable, mov.ToStatusID)
	assert.Equal(t, "Ajuste de talla", mov.Reason)
	assert.Equal(t, testUser, mov.PerformedBy)
	assert.False(t, mov.CreatedAt.IsZero())

	f.requireConsistent(t, item.ID)
}

func TestRecordMovement_CambioDeEstadoConservaUbicacion(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Collar perlas")

	_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeStatusChange,
		ToStatusID:       statusRepair,
		PerformedBy:      testUser,
	})
	require.NoError(t, err)

	stored := f.item(t, item.ID)
	assert.Equal(t, locStore, stored.LocationID())
	assert.Equal(t, statusRepair, stored.StatusID())
	f.requireConsistent(t, item.ID)
}

func TestRecordMovement_SinDestinoRegistraMovimientoNeutro(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Pulsera")

	_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeAdjustment,
		Notes:            "Conteo físico",
		PerformedBy:      testUser,
	})
	require.NoError(t, err)

	mov := f.movements(t, item.ID)[0]
	assert.Equal(t, mov.FromLocationID, mov.ToLocationID)
	assert.Equal(t, mov.FromStatusID, mov.ToStatusID)
	assert.False(t, mov.ChangesLocation())
	assert.False(t, mov.ChangesStatus())
	f.requireConsistent(t, item.ID)
}

func TestRecordMovement_DocumentoSeConserva(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Aretes")

	_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeSale,
		ToStatusID:       entity.StatusSold,
		DocumentType:     "SALE",
		DocumentID:       "FAC-0099",
		PerformedBy:      testUser,
	})
	require.NoError(t, err)

	mov := f.movements(t, item.ID)[0]
	assert.Equal(t, "SALE", mov.DocumentType)
	assert.Equal(t, "FAC-0099", mov.DocumentID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_CamposObligatorios(t *testing.T) {
	f := newFixture(t)
	cases := map[string]inventory.RecordMovementInput{
		"itemId":           {MovementTypeCode: entity.MovementCodeTransfer, PerformedBy: testUser},
		"movementTypeCode": {ItemID: "x", PerformedBy: testUser},
		"performedBy":      {ItemID: "x", MovementTypeCode: entity.MovementCodeTransfer},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := f.recorder.RecordMovement(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, field, verr.Field)
		})
	}
	assert.Equal(t, 3, f.observer.failed["validation"])
}

func TestRecordMovement_PiezaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           "no-existe",
		MovementTypeCode: entity.MovementCodeTransfer,
		ToLocationID:     locWorkshop,
		PerformedBy:      testUser,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.observer.failed["not_found"])
}

func TestRecordMovement_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Dije")

	_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: "TELEPORT",
		PerformedBy:      testUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType)
	assert.Len(t, f.movements(t, item.ID), 1, "sólo el CREATE")
}

func TestRecordMovement_TipoInactivo(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Dije")
	err := f.store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		return repos.MovementTypes.InsertMissing(context.Background(), []*entity.MovementType{
			{ID: "mt_legacy", Code: "LEGACY", Name: "Obsoleto", IsActive: false},
		})
	})
	require.NoError(t, err)

	_, err = f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: "LEGACY",
		PerformedBy:      testUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType)
}

func TestRecordMovement_DestinoInvalidoNoEscribeNada(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Broche")

	cases := map[string]inventory.RecordMovementInput{
		"ubicación inexistente": {ToLocationID: "loc_nowhere"},
		"ubicación inactiva":    {ToLocationID: locInactive},
		"estado inexistente":    {ToStatusID: "stat_unknown"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			in.ItemID = item.ID
			in.MovementTypeCode = entity.MovementCodeTransfer
			in.PerformedBy = testUser
			_, err := f.recorder.RecordMovement(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	stored := f.item(t, item.ID)
	assert.Equal(t, locStore, stored.LocationID())
	assert.Len(t, f.movements(t, item.ID), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad: un fallo tras insertar el movimiento no deja rastro
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_FalloAlActualizarPiezaRevierteElMovimiento(t *testing.T) {
	runner := &failingRunner{failFrom: 2} // el alta (1.ª llamada) funciona
	f := newFixtureWithRunner(t, func(s *memory.Store) inventory.TxRunner {
		runner.store = s
		return runner
	})
	item := f.newItem(t, "Anillo compromiso")

	_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeTransfer,
		ToLocationID:     locWorkshop,
		PerformedBy:      testUser,
	})
	require.ErrorIs(t, err, errInjected)

	assert.Len(t, f.movements(t, item.ID), 1, "el TRANSFER no debe quedar en el libro")
	assert.Equal(t, locStore, f.item(t, item.ID).LocationID())
	f.requireConsistent(t, item.ID)
	assert.Equal(t, 1, f.observer.failed["error"])
	assert.Len(t, f.publisher.published(), 1, "sólo se publica el CREATE confirmado")
}

func TestRecordMovement_FalloAlPublicarNoAfectaAlMovimiento(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Cadena")
	f.publisher.err = errors.New("broker caído")

	id, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeTransfer,
		ToLocationID:     locWorkshop,
		PerformedBy:      testUser,
	})
	require.NoError(t, err)
	assert.Equal(t, id, f.movements(t, item.ID)[0].ID)
	assert.Equal(t, 1, f.observer.publishFailed)
}

func TestRecordMovement_PublicaEventoConfirmado(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Reloj")

	id, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
		ItemID:           item.ID,
		MovementTypeCode: entity.MovementCodeTransfer,
		ToLocationID:     locWorkshop,
		PerformedBy:      testUser,
	})
	require.NoError(t, err)

	events := f.publisher.published()
	require.Len(t, events, 2)
	last := events[1]
	assert.Equal(t, id, last.MovementID)
	assert.Equal(t, item.ID, last.ItemID)
	assert.Equal(t, entity.MovementCodeTransfer, last.MovementTypeCode)
	assert.Equal(t, locStore, last.FromLocationID)
	assert.Equal(t, locWorkshop, last.ToLocationID)
	assert.Equal(t, 1, f.observer.recorded[entity.MovementCodeCreate])
	assert.Equal(t, 1, f.observer.recorded[entity.MovementCodeTransfer])
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_HistorialDelMasRecienteAlMasAntiguo(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Gargantilla")

	targets := []string{locWorkshop, locStore, locWorkshop, locStore}
	var ids []string
	for _, loc := range targets {
		id, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
			ItemID:           item.ID,
			MovementTypeCode: entity.MovementCodeTransfer,
			ToLocationID:     loc,
			PerformedBy:      testUser,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list := f.movements(t, item.ID)
	require.Len(t, list, len(targets)+1)
	for i := range ids {
		assert.Equal(t, ids[len(ids)-1-i], list[i].ID)
	}
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt), "marcas estrictamente decrecientes")
		assert.Equal(t, list[i].ToLocationID, list[i-1].FromLocationID, "cada movimiento parte del destino del anterior")
	}
}

func TestRecordMovement_TrasladosConcurrentesMantienenConsistencia(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "Tobillera")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := locStore
			if i%2 == 0 {
				target = locWorkshop
			}
			_, err := f.recorder.RecordMovement(context.Background(), inventory.RecordMovementInput{
				ItemID:           item.ID,
				MovementTypeCode: entity.MovementCodeTransfer,
				ToLocationID:     target,
				Notes:            fmt.Sprintf("worker %d", i),
				PerformedBy:      testUser,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list := f.movements(t, item.ID)
	assert.Len(t, list, workers+1)
	for i := 1; i < len(list); i++ {
		assert.Equal(t, list[i].ToLocationID, list[i-1].FromLocationID, "sin lecturas obsoletas del origen")
	}
	f.requireConsistent(t, item.ID)
}

func TestGetHistory_PiezaSinMovimientosDevuelveListaVacia(t *testing.T) {
	f := newFixture(t)

	list, err := f.history.GetHistory(context.Background(), "desconocida")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.history.GetHistory(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
