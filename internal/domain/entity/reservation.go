package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva (apartado).
const (
	ReservationActive    = "ACTIVE"
	ReservationExpired   = "EXPIRED"
	ReservationResolved  = "RESOLVED" // terminó en venta
	ReservationCancelled = "CANCELLED"
)

// Reservation representa un apartado de una pieza para un cliente.
type Reservation struct {
	ID             string
	ItemID         string
	CustomerID     string
	LocationID     string // tienda donde se hace el apartado
	StartDate      time.Time
	ExpiryDate     time.Time
	Status         string
	DepositAmount  decimal.Decimal
	Notes          string
	ResolutionNote string
	ResolvedAt     *time.Time
	ResolvedBy     string
	MovementID     string // movimiento RESERVE que originó la reserva
	CreatedAt      time.Time
	CreatedBy      string
}

// IsActive indica si la reserva sigue vigente.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationActive
}
