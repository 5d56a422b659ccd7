package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReservationRequest entrada para apartar una pieza.
type CreateReservationRequest struct {
	ItemID        string          `json:"item_id"`
	CustomerID    string          `json:"customer_id"`
	LocationID    string          `json:"location_id,omitempty"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Notes         string          `json:"notes,omitempty"`
}

// ResolveReservationRequest cierre de una reserva: RESOLVED (venta), CANCELLED o EXPIRED.
type ResolveReservationRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// ExpireReservationsResponse resultado del barrido de reservas vencidas.
type ExpireReservationsResponse struct {
	Expired []string `json:"expired"`
}

// ReservationResponse salida de una reserva.
type ReservationResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	CustomerID     string          `json:"customer_id"`
	LocationID     string          `json:"location_id,omitempty"`
	StartDate      time.Time       `json:"start_date"`
	ExpiryDate     time.Time       `json:"expiry_date"`
	Status         string          `json:"status"`
	DepositAmount  decimal.Decimal `json:"deposit_amount"`
	Notes          string          `json:"notes,omitempty"`
	ResolutionNote string          `json:"resolution_note,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	MovementID     string          `json:"movement_id"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by"`
}
