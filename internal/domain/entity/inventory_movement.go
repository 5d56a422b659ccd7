package entity

import "time"

// DocumentTypeReservation tipo de documento de los movimientos generados por reservas.
// El campo es libre; otros sistemas (ventas, taller) usan sus propios valores.
const DocumentTypeReservation = "RESERVATION"

// InventoryMovement es una entrada inmutable del libro de movimientos de una pieza.
// Un valor vacío en los campos opcionales se persiste como NULL.
type InventoryMovement struct {
	ID               string
	ItemID           string
	MovementTypeID   string
	MovementTypeCode string // desnormalizado en lectura (JOIN con movement_types)
	FromLocationID   string
	ToLocationID     string
	FromStatusID     string
	ToStatusID       string
	DocumentType     string
	DocumentID       string
	Reason           string
	Notes            string
	PerformedBy      string
	CreatedAt        time.Time // asignado por el almacenamiento; define el orden
}

// ChangesLocation indica si el movimiento traslada la pieza.
func (m *InventoryMovement) ChangesLocation() bool {
	return m.FromLocationID != m.ToLocationID
}

// ChangesStatus indica si el movimiento cambia el estado operativo.
func (m *InventoryMovement) ChangesStatus() bool {
	return m.FromStatusID != m.ToStatusID
}
