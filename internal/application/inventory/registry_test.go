package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/infrastructure/memory"
)

type countingCache struct {
	mu      sync.Mutex
	types   []*entity.MovementType
	gets    int
	sets    int
	failGet bool
}

func (c *countingCache) GetMovementTypes(context.Context) ([]*entity.MovementType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, errors.New("redis no disponible")
	}
	return c.types, nil
}

func (c *countingCache) SetMovementTypes(_ context.Context, types []*entity.MovementType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.types = types
	return nil
}

func TestRegistry_SiembraLosTiposEstandarOrdenados(t *testing.T) {
	store := memory.NewStore()
	reg := inventory.NewMovementTypeRegistryUseCase(store, store.MovementTypes(), nil, nil)

	types, err := reg.GetMovementTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 7)

	codes := make([]string, 0, len(types))
	for _, mt := range types {
		codes = append(codes, mt.Code)
		assert.True(t, mt.IsActive)
	}
	assert.Equal(t, []string{
		entity.MovementCodeAdaptation,
		entity.MovementCodeAdjustment,
		entity.MovementCodeCreate,
		entity.MovementCodeReserve,
		entity.MovementCodeSale,
		entity.MovementCodeStatusChange,
		entity.MovementCodeTransfer,
	}, codes)
}

func TestRegistry_SiembraConcurrenteNoDuplica(t *testing.T) {
	store := memory.NewStore()
	// Varias instancias simulan procesos distintos arrancando a la vez
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg := inventory.NewMovementTypeRegistryUseCase(store, store.MovementTypes(), nil, nil)
			assert.NoError(t, reg.EnsureSeeded(context.Background()))
		}()
	}
	wg.Wait()

	types, err := store.MovementTypes().ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 7)

	seen := map[string]bool{}
	for _, mt := range types {
		assert.False(t, seen[mt.Code], "código repetido: %s", mt.Code)
		seen[mt.Code] = true
	}
}

func TestRegistry_UsaCacheTrasLaPrimeraLectura(t *testing.T) {
	store := memory.NewStore()
	cache := &countingCache{}
	reg := inventory.NewMovementTypeRegistryUseCase(store, store.MovementTypes(), cache, nil)

	first, err := reg.GetMovementTypes(context.Background())
	require.NoError(t, err)
	second, err := reg.GetMovementTypes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets, "sólo se rellena la caché en el primer fallo")
}

func TestRegistry_FalloDeCacheNoImpideLeer(t *testing.T) {
	store := memory.NewStore()
	cache := &countingCache{failGet: true}
	reg := inventory.NewMovementTypeRegistryUseCase(store, store.MovementTypes(), cache, nil)

	types, err := reg.GetMovementTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 7)
}

// flakyRunner falla las primeras failures transacciones y después delega en el store.
type flakyRunner struct {
	store    *memory.Store
	failures int
	calls    int
}

func (r *flakyRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	r.calls++
	if r.calls <= r.failures {
		return errInjected
	}
	return r.store.Run(ctx, fn)
}

func TestRegistry_FalloAlSembrarFallaLaLlamada(t *testing.T) {
	store := memory.NewStore()
	runner := &flakyRunner{store: store, failures: 1}
	reg := inventory.NewMovementTypeRegistryUseCase(runner, store.MovementTypes(), nil, nil)

	types, err := reg.GetMovementTypes(context.Background())
	require.ErrorIs(t, err, errInjected)
	assert.Nil(t, types)

	stored, err := store.MovementTypes().ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored, "la siembra fallida no deja tipos")

	// La siguiente llamada vuelve a intentar la siembra
	types, err = reg.GetMovementTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 7)
	assert.Equal(t, 2, runner.calls)

	_, err = reg.GetMovementTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, runner.calls, "una vez sembrado no se repite")
}
