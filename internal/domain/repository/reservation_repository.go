package repository

import (
	"context"
	"time"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia para reservas.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	// GetActiveByItem devuelve la reserva ACTIVE de la pieza o nil.
	GetActiveByItem(ctx context.Context, itemID string) (*entity.Reservation, error)
	ListActive(ctx context.Context) ([]*entity.Reservation, error)
	// ListExpired reservas ACTIVE con ExpiryDate anterior a now.
	ListExpired(ctx context.Context, now time.Time) ([]*entity.Reservation, error)
	// Resolve persiste Status, ResolutionNote, ResolvedAt y ResolvedBy.
	Resolve(ctx context.Context, reservation *entity.Reservation) error
}
