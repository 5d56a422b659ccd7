package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo libro de movimientos sobre PostgreSQL. Sólo INSERT y SELECT;
// un trigger rechaza UPDATE/DELETE sobre la tabla.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `
	m.id, m.item_id, m.movement_type_id, t.code,
	COALESCE(m.from_location_id, ''), COALESCE(m.to_location_id, ''),
	COALESCE(m.from_status_id, ''), COALESCE(m.to_status_id, ''),
	COALESCE(m.document_type, ''), COALESCE(m.document_id, ''),
	COALESCE(m.reason, ''), COALESCE(m.notes, ''), m.performed_by, m.created_at`

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.ItemID, &m.MovementTypeID, &m.MovementTypeCode,
		&m.FromLocationID, &m.ToLocationID, &m.FromStatusID, &m.ToStatusID,
		&m.DocumentType, &m.DocumentID, &m.Reason, &m.Notes, &m.PerformedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta el movimiento. El ID se genera si viene vacío y created_at lo fija el servidor.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (
			id, item_id, movement_type_id, from_location_id, to_location_id, from_status_id,
			to_status_id, document_type, document_id, reason, notes, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		movement.ID, movement.ItemID, movement.MovementTypeID,
		nullable(movement.FromLocationID), nullable(movement.ToLocationID),
		nullable(movement.FromStatusID), nullable(movement.ToStatusID),
		nullable(movement.DocumentType), nullable(movement.DocumentID),
		nullable(movement.Reason), nullable(movement.Notes), movement.PerformedBy,
	).Scan(&movement.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements m JOIN movement_types t ON t.id = m.movement_type_id
		WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByItem devuelve el historial de la pieza, del más reciente al más antiguo.
func (r *InventoryMovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements m JOIN movement_types t ON t.id = m.movement_type_id
		WHERE m.item_id = $1
		ORDER BY m.created_at DESC, m.seq DESC`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
