// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa con APP_STORAGE=memory (desarrollo) y en los tests de los casos de uso.
//
// Las transacciones se serializan con un único mutex: Run trabaja sobre una copia del estado
// y sólo la publica si fn termina sin error, así que un fallo a mitad no deja rastro.
// Los repositorios de nivel pool (Store.Items(), ...) toman el mismo mutex por operación:
// no deben usarse dentro de un callback de Run.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

type state struct {
	items        map[string]*entity.InventoryItem
	movements    []*entity.InventoryMovement // orden de inserción == orden de CreatedAt
	types        map[string]*entity.MovementType
	locations    map[string]*entity.Location
	statuses     map[string]*entity.OperationalStatus
	reservations map[string]*entity.Reservation
	categories   map[string]*entity.Category
	subcats      map[string]*entity.Subcategory
	customers    map[string]*entity.Customer
	suppliers    map[string]*entity.Supplier
	lastMovement time.Time
}

func newState() *state {
	return &state{
		items:        map[string]*entity.InventoryItem{},
		types:        map[string]*entity.MovementType{},
		locations:    map[string]*entity.Location{},
		statuses:     map[string]*entity.OperationalStatus{},
		reservations: map[string]*entity.Reservation{},
		categories:   map[string]*entity.Category{},
		subcats:      map[string]*entity.Subcategory{},
		customers:    map[string]*entity.Customer{},
		suppliers:    map[string]*entity.Supplier{},
	}
}

// clone copia los mapas; las entidades se sustituyen (nunca se mutan en sitio) salvo los
// movimientos, que son inmutables.
func (s *state) clone() *state {
	c := &state{
		items:        make(map[string]*entity.InventoryItem, len(s.items)),
		movements:    make([]*entity.InventoryMovement, len(s.movements)),
		types:        make(map[string]*entity.MovementType, len(s.types)),
		locations:    make(map[string]*entity.Location, len(s.locations)),
		statuses:     make(map[string]*entity.OperationalStatus, len(s.statuses)),
		reservations: make(map[string]*entity.Reservation, len(s.reservations)),
		categories:   make(map[string]*entity.Category, len(s.categories)),
		subcats:      make(map[string]*entity.Subcategory, len(s.subcats)),
		customers:    make(map[string]*entity.Customer, len(s.customers)),
		suppliers:    make(map[string]*entity.Supplier, len(s.suppliers)),
		lastMovement: s.lastMovement,
	}
	copy(c.movements, s.movements)
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.types {
		c.types[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.statuses {
		c.statuses[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.subcats {
		c.subcats[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	return c
}

// Store almacenamiento en memoria con semántica transaccional.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		st:  newState(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Run ejecuta fn con repositorios sobre una copia del estado; si fn no falla la copia
// pasa a ser el estado visible.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(s.repos(scope{store: s, st: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) repos(sc scope) inventory.TxRepositories {
	return inventory.TxRepositories{
		Items:         itemRepo{sc},
		Movements:     movementRepo{sc},
		MovementTypes: movementTypeRepo{sc},
		Locations:     locationRepo{sc},
		Statuses:      statusRepo{sc},
		Reservations:  reservationRepo{sc},
		Categories:    categoryRepo{sc},
		Subcategories: subcategoryRepo{sc},
		Customers:     customerRepo{sc},
		Suppliers:     supplierRepo{sc},
	}
}

// Items repositorio de piezas fuera de transacción.
func (s *Store) Items() repository.InventoryItemRepository { return itemRepo{scope{store: s}} }

// Movements libro de movimientos fuera de transacción.
func (s *Store) Movements() repository.InventoryMovementRepository {
	return movementRepo{scope{store: s}}
}

// MovementTypes catálogo de tipos fuera de transacción.
func (s *Store) MovementTypes() repository.MovementTypeRepository {
	return movementTypeRepo{scope{store: s}}
}

// Locations ubicaciones fuera de transacción.
func (s *Store) Locations() repository.LocationRepository { return locationRepo{scope{store: s}} }

// Statuses estados operativos fuera de transacción.
func (s *Store) Statuses() repository.OperationalStatusRepository {
	return statusRepo{scope{store: s}}
}

// Reservations reservas fuera de transacción.
func (s *Store) Reservations() repository.ReservationRepository {
	return reservationRepo{scope{store: s}}
}

// Categories categorías fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{scope{store: s}} }

// Subcategories subcategorías fuera de transacción.
func (s *Store) Subcategories() repository.SubcategoryRepository {
	return subcategoryRepo{scope{store: s}}
}

// Customers clientes fuera de transacción.
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{scope{store: s}} }

// Suppliers proveedores fuera de transacción.
func (s *Store) Suppliers() repository.SupplierRepository { return supplierRepo{scope{store: s}} }

// Repositories agrupa los repositorios de nivel pool (lecturas fuera de transacción).
func (s *Store) Repositories() inventory.TxRepositories {
	return s.repos(scope{store: s})
}

// scope apunta al estado de una transacción (st != nil) o al estado publicado bajo el mutex.
type scope struct {
	store *Store
	st    *state
}

func (sc scope) acquire() (*state, func()) {
	if sc.st != nil {
		return sc.st, func() {}
	}
	sc.store.mu.Lock()
	return sc.store.st, sc.store.mu.Unlock
}

// nextMovementTime devuelve una marca estrictamente mayor que la del último movimiento,
// con la misma precisión que Postgres (microsegundos).
func (sc scope) nextMovementTime(st *state) time.Time {
	ts := sc.store.now().Truncate(time.Microsecond)
	if !ts.After(st.lastMovement) {
		ts = st.lastMovement.Add(time.Microsecond)
	}
	st.lastMovement = ts
	return ts
}
