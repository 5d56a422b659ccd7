package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// performedBy no viaja en el body: se toma del token.
type RecordMovementRequest struct {
	ItemID           string `json:"item_id"`
	MovementTypeCode string `json:"movement_type_code"`
	ToLocationID     string `json:"to_location_id,omitempty"`
	ToStatusID       string `json:"to_status_id,omitempty"`
	DocumentType     string `json:"document_type,omitempty"`
	DocumentID       string `json:"document_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// RecordMovementResponse respuesta con el ID del movimiento creado.
type RecordMovementResponse struct {
	MovementID string `json:"movement_id"`
}

// MovementTypeResponse salida de un tipo de movimiento.
type MovementTypeResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// MovementResponse salida de un movimiento del historial.
type MovementResponse struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"item_id"`
	MovementTypeID   string    `json:"movement_type_id"`
	MovementTypeCode string    `json:"movement_type_code"`
	FromLocationID   string    `json:"from_location_id,omitempty"`
	ToLocationID     string    `json:"to_location_id,omitempty"`
	FromStatusID     string    `json:"from_status_id,omitempty"`
	ToStatusID       string    `json:"to_status_id,omitempty"`
	DocumentType     string    `json:"document_type,omitempty"`
	DocumentID       string    `json:"document_id,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	PerformedBy      string    `json:"performed_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateItemRequest entrada para dar de alta una pieza.
// LocationID/StatusID son la ubicación y el estado iniciales (movimiento CREATE).
type CreateItemRequest struct {
	CategoryID    string          `json:"category_id"`
	SubcategoryID string          `json:"subcategory_id,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	ShowcaseID    string          `json:"showcase_id,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MainWeight    decimal.Decimal `json:"main_weight"`
	Attributes    json.RawMessage `json:"attributes,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Comments      string          `json:"comments,omitempty"`
	LocationID    string          `json:"location_id"`
	StatusID      string          `json:"status_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateItemRequest entrada para actualizar datos descriptivos (nunca ubicación ni estado).
type UpdateItemRequest struct {
	CategoryID    *string          `json:"category_id"`
	SubcategoryID *string          `json:"subcategory_id"`
	SupplierID    *string          `json:"supplier_id"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	ShowcaseID    *string          `json:"showcase_id"`
	IsApproved    *bool            `json:"is_approved"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MainWeight    *decimal.Decimal `json:"main_weight"`
	Attributes    json.RawMessage  `json:"attributes"`
	Images        []string         `json:"images"`
	Comments      *string          `json:"comments"`
}

// ItemResponse salida de una pieza.
type ItemResponse struct {
	ID             string          `json:"id"`
	ItemCode       string          `json:"item_code"`
	QRCode         string          `json:"qr_code"`
	CategoryID     string          `json:"category_id"`
	SubcategoryID  string          `json:"subcategory_id,omitempty"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	ShowcaseID     string          `json:"showcase_id,omitempty"`
	IsApproved     bool            `json:"is_approved"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	MainWeight     decimal.Decimal `json:"main_weight"`
	Attributes     json.RawMessage `json:"attributes,omitempty"`
	Images         []string        `json:"images"`
	Comments       string          `json:"comments,omitempty"`
	LocationID     string          `json:"location_id"`
	StatusID       string          `json:"status_id"`
	LastMovementID string          `json:"last_movement_id,omitempty"`
	LastMovementAt *time.Time      `json:"last_movement_at,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	CreatedBy      string          `json:"created_by"`
}

// ItemListFilter filtros del listado de piezas (query string).
type ItemListFilter struct {
	LocationID string `query:"location_id"`
	SupplierID string `query:"supplier_id"`
}

// ItemListResponse lista paginada de piezas.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
