package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPlacementMismatch se devuelve cuando se intenta aplicar a una pieza un movimiento ajeno
// o todavía no persistido.
var ErrPlacementMismatch = errors.New("el movimiento no corresponde a la pieza")

// ItemPlacement es la ubicación/estado actual de una pieza más el puntero al último movimiento.
// Invariante: LocationID/StatusID == ToLocationID/ToStatusID del movimiento LastMovementID.
type ItemPlacement struct {
	LocationID     string
	StatusID       string
	LastMovementID string
	LastMovementAt *time.Time
}

// InventoryItem es una pieza de joyería del inventario.
// La ubicación y el estado no son modificables directamente: sólo ApplyMovement los cambia,
// de modo que cualquier cambio exige un movimiento ya registrado en el libro.
type InventoryItem struct {
	ID            string
	ItemCode      string // ej. LD-2024-0001
	QRCode        string
	CategoryID    string
	SubcategoryID string
	SupplierID    string
	Name          string
	Description   string
	ShowcaseID    string
	IsApproved    bool
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MainWeight    decimal.Decimal // gramos
	Attributes    json.RawMessage
	Images        []string
	Comments      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string

	placement ItemPlacement
}

// Placement devuelve una copia de la ubicación/estado actual.
func (i *InventoryItem) Placement() ItemPlacement {
	return i.placement
}

// LocationID ubicación actual.
func (i *InventoryItem) LocationID() string { return i.placement.LocationID }

// StatusID estado operativo actual.
func (i *InventoryItem) StatusID() string { return i.placement.StatusID }

// ApplyMovement mueve la pieza al destino del movimiento y apunta a él como último movimiento.
// El movimiento debe pertenecer a la pieza y tener ID y CreatedAt asignados.
func (i *InventoryItem) ApplyMovement(m *InventoryMovement) error {
	if m == nil || m.ItemID != i.ID || m.ID == "" || m.CreatedAt.IsZero() {
		return ErrPlacementMismatch
	}
	at := m.CreatedAt
	i.placement = ItemPlacement{
		LocationID:     m.ToLocationID,
		StatusID:       m.ToStatusID,
		LastMovementID: m.ID,
		LastMovementAt: &at,
	}
	i.UpdatedAt = at
	return nil
}

// RestorePlacement reconstruye la ubicación leída del almacenamiento.
// Uso exclusivo de los adaptadores de persistencia.
func RestorePlacement(i *InventoryItem, p ItemPlacement) {
	i.placement = p
}
