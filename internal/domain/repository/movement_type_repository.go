package repository

import (
	"context"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// MovementTypeRepository catálogo de tipos de movimiento.
type MovementTypeRepository interface {
	ListActive(ctx context.Context) ([]*entity.MovementType, error)
	GetByCode(ctx context.Context, code string) (*entity.MovementType, error)
	// InsertMissing inserta los tipos cuyo ID aún no existe; los existentes no se modifican.
	InsertMissing(ctx context.Context, types []*entity.MovementType) error
}
