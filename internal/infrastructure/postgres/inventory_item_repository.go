package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `
	id, item_code, COALESCE(qr_code, ''), category_id, COALESCE(subcategory_id, ''),
	COALESCE(supplier_id, ''), name,
	COALESCE(description, ''), COALESCE(showcase_id, ''), is_approved, purchase_price, sale_price,
	main_weight, attributes, images, COALESCE(comments, ''), COALESCE(location_id, ''),
	COALESCE(status_id, ''), COALESCE(last_movement_id, ''), last_movement_at, is_active,
	created_at, updated_at, COALESCE(created_by, '')`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var (
		it     entity.InventoryItem
		p      entity.ItemPlacement
		attrs  []byte
		lastAt *time.Time
	)
	err := row.Scan(
		&it.ID, &it.ItemCode, &it.QRCode, &it.CategoryID, &it.SubcategoryID,
		&it.SupplierID, &it.Name,
		&it.Description, &it.ShowcaseID, &it.IsApproved, &it.PurchasePrice, &it.SalePrice,
		&it.MainWeight, &attrs, &it.Images, &it.Comments, &p.LocationID,
		&p.StatusID, &p.LastMovementID, &lastAt, &it.IsActive,
		&it.CreatedAt, &it.UpdatedAt, &it.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	it.Attributes = json.RawMessage(attrs)
	p.LastMovementAt = lastAt
	entity.RestorePlacement(&it, p)
	return &it, nil
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Create inserta la pieza sin ubicación ni estado: el movimiento CREATE los fija.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	attrs := item.Attributes
	if len(attrs) == 0 {
		attrs = json.RawMessage(`{}`)
	}
	images := item.Images
	if images == nil {
		images = []string{}
	}
	query := `
		INSERT INTO inventory_items (
			id, item_code, qr_code, category_id, subcategory_id, supplier_id, name, description,
			showcase_id, is_approved, purchase_price, sale_price, main_weight, attributes, images,
			comments, is_active, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.ItemCode, nullable(item.QRCode), item.CategoryID, nullable(item.SubcategoryID),
		nullable(item.SupplierID), item.Name, nullable(item.Description), nullable(item.ShowcaseID), item.IsApproved,
		item.PurchasePrice, item.SalePrice, item.MainWeight, []byte(attrs), images,
		nullable(item.Comments), item.IsActive, item.CreatedAt, item.UpdatedAt, nullable(item.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene una pieza por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetForUpdate obtiene la pieza y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene una pieza por su código.
func (r *InventoryItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE item_code = $1`, code)
}

// List lista piezas activas aplicando los filtros no vacíos.
func (r *InventoryItemRepo) List(ctx context.Context, filter repository.ItemFilter, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE is_active`
	args := []any{}
	pos := 1
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.SupplierID != "" {
		query += fmt.Sprintf(" AND supplier_id = $%d", pos)
		args = append(args, filter.SupplierID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY item_code LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// MaxCodeSequence mayor secuencial de los códigos con el prefijo dado (0 si no hay).
// Los códigos con sufijo no numérico se ignoran.
func (r *InventoryItemRepo) MaxCodeSequence(ctx context.Context, prefix string) (int, error) {
	var code *string
	query := `
		SELECT item_code FROM inventory_items
		WHERE item_code LIKE $1 || '%' AND item_code ~ $2
		ORDER BY length(item_code) DESC, item_code DESC
		LIMIT 1`
	err := r.q.QueryRow(ctx, query, prefix, codeSequencePattern(prefix)).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("max code sequence: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(deref(code), prefix))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// UpdateDetails actualiza los datos descriptivos; ubicación y estado no se tocan.
func (r *InventoryItemRepo) UpdateDetails(ctx context.Context, item *entity.InventoryItem) error {
	attrs := item.Attributes
	if len(attrs) == 0 {
		attrs = json.RawMessage(`{}`)
	}
	images := item.Images
	if images == nil {
		images = []string{}
	}
	query := `
		UPDATE inventory_items SET
			category_id = $2, subcategory_id = $3, name = $4, description = $5, showcase_id = $6,
			is_approved = $7, purchase_price = $8, sale_price = $9, main_weight = $10,
			attributes = $11, images = $12, comments = $13, updated_at = $14, supplier_id = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.CategoryID, nullable(item.SubcategoryID), item.Name, nullable(item.Description),
		nullable(item.ShowcaseID), item.IsApproved, item.PurchasePrice, item.SalePrice, item.MainWeight,
		[]byte(attrs), images, nullable(item.Comments), item.UpdatedAt, nullable(item.SupplierID),
	)
	if err != nil {
		return fmt.Errorf("update item details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePlacement persiste ubicación, estado y último movimiento.
func (r *InventoryItemRepo) UpdatePlacement(ctx context.Context, item *entity.InventoryItem) error {
	p := item.Placement()
	query := `
		UPDATE inventory_items SET
			location_id = $2, status_id = $3, last_movement_id = $4, last_movement_at = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, nullable(p.LocationID), nullable(p.StatusID), nullable(p.LastMovementID),
		p.LastMovementAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item placement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate baja lógica.
func (r *InventoryItemRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_items SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
