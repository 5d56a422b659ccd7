package repository

import (
	"context"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	ListActive(ctx context.Context) ([]*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	// Upsert inserta o actualiza por ID (carga de maestros).
	Upsert(ctx context.Context, location *entity.Location) error
	Deactivate(ctx context.Context, id string) error
}
