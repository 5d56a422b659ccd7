package repository

import (
	"context"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// ItemFilter filtros del listado de piezas activas; los campos vacíos no filtran.
type ItemFilter struct {
	LocationID string
	SupplierID string
}

// InventoryItemRepository define el puerto de persistencia para piezas (DIP).
// UpdateDetails nunca toca ubicación/estado; UpdatePlacement sólo se usa desde el registrador
// de movimientos dentro de su transacción.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate lee la pieza bloqueándola hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	List(ctx context.Context, filter ItemFilter, limit, offset int) ([]*entity.InventoryItem, error)
	// MaxCodeSequence devuelve el mayor secuencial numérico de los códigos con ese prefijo (0 si no hay).
	MaxCodeSequence(ctx context.Context, prefix string) (int, error)
	UpdateDetails(ctx context.Context, item *entity.InventoryItem) error
	UpdatePlacement(ctx context.Context, item *entity.InventoryItem) error
	Deactivate(ctx context.Context, id string) error
}
