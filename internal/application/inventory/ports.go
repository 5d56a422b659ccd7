package inventory

import (
	"context"
	"time"

	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Items         repository.InventoryItemRepository
	Movements     repository.InventoryMovementRepository
	MovementTypes repository.MovementTypeRepository
	Locations     repository.LocationRepository
	Statuses      repository.OperationalStatusRepository
	Reservations  repository.ReservationRepository
	Categories    repository.CategoryRepository
	Subcategories repository.SubcategoryRepository
	Customers     repository.CustomerRepository
	Suppliers     repository.SupplierRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no se aplica ninguna escritura. Un conflicto de concurrencia que no se
// resuelve reintentando se devuelve como domain.ErrTransactionConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// MovementRecordedEvent se publica después del commit de un movimiento.
type MovementRecordedEvent struct {
	MovementID       string    `json:"movement_id"`
	ItemID           string    `json:"item_id"`
	MovementTypeCode string    `json:"movement_type_code"`
	FromLocationID   string    `json:"from_location_id,omitempty"`
	ToLocationID     string    `json:"to_location_id,omitempty"`
	FromStatusID     string    `json:"from_status_id,omitempty"`
	ToStatusID       string    `json:"to_status_id,omitempty"`
	DocumentType     string    `json:"document_type,omitempty"`
	DocumentID       string    `json:"document_id,omitempty"`
	PerformedBy      string    `json:"performed_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewMovementRecordedEvent construye el evento a partir del movimiento confirmado.
func NewMovementRecordedEvent(m *entity.InventoryMovement) MovementRecordedEvent {
	return MovementRecordedEvent{
		MovementID:       m.ID,
		ItemID:           m.ItemID,
		MovementTypeCode: m.MovementTypeCode,
		FromLocationID:   m.FromLocationID,
		ToLocationID:     m.ToLocationID,
		FromStatusID:     m.FromStatusID,
		ToStatusID:       m.ToStatusID,
		DocumentType:     m.DocumentType,
		DocumentID:       m.DocumentID,
		PerformedBy:      m.PerformedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// MovementPublisher difunde movimientos confirmados a otros sistemas (Kafka).
type MovementPublisher interface {
	PublishMovementRecorded(ctx context.Context, event MovementRecordedEvent) error
}

// MovementObserver recibe métricas del registrador.
type MovementObserver interface {
	MovementRecorded(typeCode string, elapsed time.Duration)
	MovementFailed(reason string)
	PublishFailed()
}

// MovementTypeCache cachea el listado de tipos activos. (nil, nil) significa fallo de caché.
type MovementTypeCache interface {
	GetMovementTypes(ctx context.Context) ([]*entity.MovementType, error)
	SetMovementTypes(ctx context.Context, types []*entity.MovementType) error
}

// TraceabilityReport agrupa lo necesario para exportar la trazabilidad de una pieza.
type TraceabilityReport struct {
	Item          *entity.InventoryItem
	Movements     []*entity.InventoryMovement
	LocationNames map[string]string
	StatusNames   map[string]string
	TypeNames     map[string]string // por MovementTypeID
	GeneratedAt   time.Time
}

// LocationName nombre legible de la ubicación (o el ID si no está en catálogo).
func (r *TraceabilityReport) LocationName(id string) string {
	if name, ok := r.LocationNames[id]; ok {
		return name
	}
	return id
}

// StatusName nombre legible del estado (o el ID si no está en catálogo).
func (r *TraceabilityReport) StatusName(id string) string {
	if name, ok := r.StatusNames[id]; ok {
		return name
	}
	return id
}

// TypeName nombre legible del tipo de movimiento.
func (r *TraceabilityReport) TypeName(m *entity.InventoryMovement) string {
	if name, ok := r.TypeNames[m.MovementTypeID]; ok {
		return name
	}
	return m.MovementTypeCode
}

// ReportRenderer convierte un informe de trazabilidad en un documento (xlsx, pdf).
type ReportRenderer interface {
	Render(ctx context.Context, report *TraceabilityReport) ([]byte, error)
}

type nopPublisher struct{}

func (nopPublisher) PublishMovementRecorded(context.Context, MovementRecordedEvent) error { return nil }

type nopObserver struct{}

func (nopObserver) MovementRecorded(string, time.Duration) {}
func (nopObserver) MovementFailed(string)                  {}
func (nopObserver) PublishFailed()                         {}
