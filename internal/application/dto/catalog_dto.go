package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	ID      string `json:"id,omitempty"` // opcional; si viene vacío se genera
	Name    string `json:"name"`
	Type    string `json:"type"` // WORKSHOP | STORE | OTHER
	Address string `json:"address,omitempty"`
}

// UpdateLocationRequest entrada para actualizar una ubicación.
type UpdateLocationRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Address *string `json:"address"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// CreateStatusRequest entrada para crear un estado operativo.
type CreateStatusRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// UpdateStatusRequest entrada para actualizar un estado operativo.
type UpdateStatusRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// StatusResponse salida de un estado operativo.
type StatusResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}
