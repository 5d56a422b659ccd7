package repository

import (
	"context"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// OperationalStatusRepository define el puerto de persistencia para estados operativos.
type OperationalStatusRepository interface {
	Create(ctx context.Context, status *entity.OperationalStatus) error
	GetByID(ctx context.Context, id string) (*entity.OperationalStatus, error)
	ListActive(ctx context.Context) ([]*entity.OperationalStatus, error)
	Update(ctx context.Context, status *entity.OperationalStatus) error
	// InsertMissing inserta los estados cuyo ID aún no existe.
	InsertMissing(ctx context.Context, statuses []*entity.OperationalStatus) error
	Deactivate(ctx context.Context, id string) error
}
