package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
	"github.com/londor/les-inventario/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: almacenamiento en memoria con catálogos sembrados
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUser     = "user-1"
	locStore     = "loc_store"
	locWorkshop  = "loc_workshop"
	locInactive  = "loc_closed"
	statusRepair = "stat_repair"

	catRings     = "cat_rings"
	catChains    = "cat_chains"
	catRetired   = "cat_retired"
	subSolitaire = "sub_solitaire"
	subCuban     = "sub_cuban"
	supOrfebre   = "sup_orfebre"
	supClosed    = "sup_closed"
)

type fixture struct {
	store     *memory.Store
	publisher *fakePublisher
	observer  *fakeObserver
	recorder  *inventory.RecordMovementUseCase
	items     *inventory.ItemUseCase
	history   *inventory.HistoryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

// newFixtureWithRunner permite envolver el TxRunner del store (inyección de fallos).
func newFixtureWithRunner(t *testing.T, wrap func(*memory.Store) inventory.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	seedCatalogs(t, store)

	var runner inventory.TxRunner = store
	if wrap != nil {
		runner = wrap(store)
	}
	f := &fixture{
		store:     store,
		publisher: &fakePublisher{},
		observer:  &fakeObserver{recorded: map[string]int{}, failed: map[string]int{}},
	}
	f.recorder = inventory.NewRecordMovementUseCase(runner, f.publisher, f.observer, nil)
	f.items = inventory.NewItemUseCase(runner, store.Items(), f.recorder, inventory.ItemConfig{QRBaseURL: "https://les.test/"})
	f.history = inventory.NewHistoryUseCase(store.Items(), store.Movements(), store.MovementTypes(), store.Locations(), store.Statuses())
	return f
}

func seedCatalogs(t *testing.T, store *memory.Store) {
	t.Helper()
	now := time.Now().UTC()
	err := store.Run(context.Background(), func(repos inventory.TxRepositories) error {
		if err := repos.MovementTypes.InsertMissing(context.Background(), entity.BuiltinMovementTypes(now)); err != nil {
			return err
		}
		if err := repos.Statuses.InsertMissing(context.Background(), entity.DefaultOperationalStatuses(now)); err != nil {
			return err
		}
		if err := repos.Statuses.Create(context.Background(), &entity.OperationalStatus{
			ID: statusRepair, Name: "En taller", IsActive: true, CreatedAt: now,
		}); err != nil {
			return err
		}
		for _, l := range []*entity.Location{
			{ID: locStore, Name: "Tienda Centro", Type: entity.LocationTypeStore, IsActive: true, CreatedAt: now},
			{ID: locWorkshop, Name: "Taller", Type: entity.LocationTypeWorkshop, IsActive: true, CreatedAt: now},
			{ID: locInactive, Name: "Local cerrado", Type: entity.LocationTypeStore, IsActive: false, CreatedAt: now},
		} {
			if err := repos.Locations.Create(context.Background(), l); err != nil {
				return err
			}
		}
		for _, c := range []*entity.Category{
			{ID: catRings, Name: "Anillos", IsActive: true, CreatedAt: now},
			{ID: catChains, Name: "Cadenas", IsActive: true, CreatedAt: now},
			{ID: catRetired, Name: "Relojes", IsActive: false, CreatedAt: now},
		} {
			if err := repos.Categories.Create(context.Background(), c); err != nil {
				return err
			}
		}
		for _, s := range []*entity.Subcategory{
			{ID: subSolitaire, CategoryID: catRings, Name: "Solitario", IsActive: true, CreatedAt: now},
			{ID: subCuban, CategoryID: catChains, Name: "Cubana", IsActive: true, CreatedAt: now},
		} {
			if err := repos.Subcategories.Create(context.Background(), s); err != nil {
				return err
			}
		}
		for _, s := range []*entity.Supplier{
			{ID: supOrfebre, Name: "Orfebres del Sur", IsActive: true, CreatedAt: now},
			{ID: supClosed, Name: "Taller Antiguo", IsActive: false, CreatedAt: now},
		} {
			if err := repos.Suppliers.Create(context.Background(), s); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

// newItem da de alta una pieza en la tienda, estado Disponible.
func (f *fixture) newItem(t *testing.T, name string) *dto.ItemResponse {
	t.Helper()
	item, err := f.items.Create(context.Background(), testUser, dto.CreateItemRequest{
		CategoryID: catRings,
		Name:       name,
		LocationID: locStore,
		SalePrice:  decimal.NewFromInt(250000),
		MainWeight: decimal.RequireFromString("3.25"),
	})
	require.NoError(t, err)
	return item
}

func recordTransfer(itemID, to string) inventory.RecordMovementInput {
	return inventory.RecordMovementInput{
		ItemID:           itemID,
		MovementTypeCode: entity.MovementCodeTransfer,
		ToLocationID:     to,
		PerformedBy:      testUser,
	}
}

func (f *fixture) item(t *testing.T, id string) *entity.InventoryItem {
	t.Helper()
	item, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

func (f *fixture) movements(t *testing.T, itemID string) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.history.GetHistory(context.Background(), itemID)
	require.NoError(t, err)
	return list
}

// requireConsistent comprueba que la ubicación/estado de la pieza coinciden con el destino
// de su último movimiento.
func (f *fixture) requireConsistent(t *testing.T, itemID string) {
	t.Helper()
	item := f.item(t, itemID)
	list := f.movements(t, itemID)
	require.NotEmpty(t, list)
	last := list[0]
	require.Equal(t, last.ID, item.Placement().LastMovementID, "el último movimiento debe ser el apuntado por la pieza")
	require.Equal(t, last.ToLocationID, item.LocationID())
	require.Equal(t, last.ToStatusID, item.StatusID())
}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakePublisher struct {
	mu     sync.Mutex
	events []inventory.MovementRecordedEvent
	err    error
}

func (p *fakePublisher) PublishMovementRecorded(_ context.Context, e inventory.MovementRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) published() []inventory.MovementRecordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]inventory.MovementRecordedEvent{}, p.events...)
}

type fakeObserver struct {
	mu            sync.Mutex
	recorded      map[string]int
	failed        map[string]int
	publishFailed int
}

func (o *fakeObserver) MovementRecorded(typeCode string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recorded[typeCode]++
}

func (o *fakeObserver) MovementFailed(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed[reason]++
}

func (o *fakeObserver) PublishFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.publishFailed++
}

var errInjected = errors.New("fallo inyectado")

// failingRunner ejecuta sobre el store pero hace fallar UpdatePlacement a partir del
// movimiento número failFrom (1 = el primero).
type failingRunner struct {
	store    *memory.Store
	mu       sync.Mutex
	calls    int
	failFrom int
}

func (r *failingRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.store.Run(ctx, func(repos inventory.TxRepositories) error {
		repos.Items = &failingItems{InventoryItemRepository: repos.Items, runner: r}
		return fn(repos)
	})
}

type failingItems struct {
	repository.InventoryItemRepository
	runner *failingRunner
}

func (f *failingItems) UpdatePlacement(ctx context.Context, item *entity.InventoryItem) error {
	f.runner.mu.Lock()
	f.runner.calls++
	fail := f.runner.failFrom > 0 && f.runner.calls >= f.runner.failFrom
	f.runner.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.InventoryItemRepository.UpdatePlacement(ctx, item)
}
