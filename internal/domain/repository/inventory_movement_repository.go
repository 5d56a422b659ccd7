package repository

import (
	"context"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// InventoryMovementRepository es el libro de movimientos: sólo inserción y lectura.
// No existe operación de actualización ni borrado.
type InventoryMovementRepository interface {
	// Create asigna ID (si viene vacío) y CreatedAt del servidor.
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// ListByItem devuelve todos los movimientos de la pieza, del más reciente al más antiguo.
	ListByItem(ctx context.Context, itemID string) ([]*entity.InventoryMovement, error)
}
