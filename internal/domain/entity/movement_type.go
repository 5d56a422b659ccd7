package entity

import "time"

// Códigos simbólicos estables de tipo de movimiento.
const (
	MovementCodeCreate       = "CREATE"        // alta de pieza
	MovementCodeTransfer     = "TRANSFER"      // traslado entre ubicaciones
	MovementCodeStatusChange = "STATUS_CHANGE" // cambio de estado operativo
	MovementCodeSale         = "SALE"          // venta
	MovementCodeReserve      = "RESERVE"       // reserva / apartado
	MovementCodeAdaptation   = "ADAPTATION"    // adaptación / taller
	MovementCodeAdjustment   = "ADJUSTMENT"    // ajuste de inventario
)

// MovementType clasifica el motivo de un movimiento. Catálogo casi estático.
type MovementType struct {
	ID        string
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// BuiltinMovementTypes devuelve el catálogo fijo con identificadores estables.
// La siembra es idempotente por ID: dos sembradores concurrentes convergen al mismo estado.
func BuiltinMovementTypes(now time.Time) []*MovementType {
	return []*MovementType{
		{ID: "mt_create", Code: MovementCodeCreate, Name: "Alta de Pieza", IsActive: true, CreatedAt: now},
		{ID: "mt_transfer", Code: MovementCodeTransfer, Name: "Traslado entre Ubicaciones", IsActive: true, CreatedAt: now},
		{ID: "mt_status_change", Code: MovementCodeStatusChange, Name: "Cambio de Estado Operativo", IsActive: true, CreatedAt: now},
		{ID: "mt_sale", Code: MovementCodeSale, Name: "Venta", IsActive: true, CreatedAt: now},
		{ID: "mt_reserve", Code: MovementCodeReserve, Name: "Reserva / Apartado", IsActive: true, CreatedAt: now},
		{ID: "mt_adaptation", Code: MovementCodeAdaptation, Name: "Adaptación / Taller", IsActive: true, CreatedAt: now},
		{ID: "mt_adjustment", Code: MovementCodeAdjustment, Name: "Ajuste de Inventario", IsActive: true, CreatedAt: now},
	}
}
