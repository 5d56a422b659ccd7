package entity

import "time"

// Tipos de ubicación.
const (
	LocationTypeWorkshop = "WORKSHOP"
	LocationTypeStore    = "STORE"
	LocationTypeOther    = "OTHER"
)

// IDs estándar de estados operativos sembrados al arrancar.
const (
	StatusAvailable = "stat_available"
	StatusSold      = "stat_sold"
	StatusReserved  = "stat_reserved"
)

// Location es una ubicación física (tienda, taller, almacén, tránsito).
type Location struct {
	ID        string
	Name      string
	Type      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	CreatedBy string
}

// ValidLocationType indica si t es un tipo de ubicación admitido.
func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeWorkshop, LocationTypeStore, LocationTypeOther:
		return true
	}
	return false
}

// OperationalStatus es un estado operativo de una pieza (Disponible, Vendido, Reservado...).
type OperationalStatus struct {
	ID        string
	Name      string
	Color     string
	IsActive  bool
	CreatedAt time.Time
	CreatedBy string
}

// DefaultOperationalStatuses estados base con IDs fijos.
func DefaultOperationalStatuses(now time.Time) []*OperationalStatus {
	return []*OperationalStatus{
		{ID: StatusAvailable, Name: "Disponible", Color: "#10b981", IsActive: true, CreatedAt: now, CreatedBy: "system"},
		{ID: StatusSold, Name: "Vendido", Color: "#ef4444", IsActive: true, CreatedAt: now, CreatedBy: "system"},
		{ID: StatusReserved, Name: "Reservado", Color: "#f59e0b", IsActive: true, CreatedAt: now, CreatedBy: "system"},
	}
}
