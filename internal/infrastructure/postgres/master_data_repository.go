package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.SubcategoryRepository = (*SubcategoryRepo)(nil)
	_ repository.CustomerRepository    = (*CustomerRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
)

// execOne ejecuta una sentencia que debe afectar a una fila; si no afecta a ninguna
// devuelve domain.ErrNotFound.
func execOne(ctx context.Context, q Querier, op, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Categorías ────────────────────────────────────────────────────────────

// CategoryRepo categorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, name, COALESCE(description, ''), is_active, created_at, COALESCE(created_by, '')`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.CreatedBy); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, name, description, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, nullable(c.Description), c.IsActive, c.CreatedAt, nullable(c.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría (activa o no).
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// ListActive categorías activas ordenadas por nombre.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza nombre y descripción.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return execOne(ctx, r.q, "update category",
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, nullable(c.Description))
}

// InsertMissing siembra las categorías base sin tocar las existentes.
func (r *CategoryRepo) InsertMissing(ctx context.Context, categories []*entity.Category) error {
	for _, c := range categories {
		_, err := r.q.Exec(ctx, `
			INSERT INTO categories (id, name, description, is_active, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING`,
			c.ID, c.Name, nullable(c.Description), c.IsActive, c.CreatedAt, nullable(c.CreatedBy),
		)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return nil
}

// Deactivate baja lógica.
func (r *CategoryRepo) Deactivate(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "deactivate category", `UPDATE categories SET is_active = FALSE WHERE id = $1`, id)
}

// ── Subcategorías ─────────────────────────────────────────────────────────

// SubcategoryRepo subcategorías sobre PostgreSQL.
type SubcategoryRepo struct {
	q Querier
}

// NewSubcategoryRepository construye el adaptador.
func NewSubcategoryRepository(q Querier) *SubcategoryRepo {
	return &SubcategoryRepo{q: q}
}

const subcategoryColumns = `id, category_id, name, COALESCE(description, ''), is_active, created_at, COALESCE(created_by, '')`

func scanSubcategory(row pgx.Row) (*entity.Subcategory, error) {
	var s entity.Subcategory
	if err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.IsActive, &s.CreatedAt, &s.CreatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta una subcategoría. El nombre es único dentro de la categoría.
func (r *SubcategoryRepo) Create(ctx context.Context, s *entity.Subcategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO subcategories (id, category_id, name, description, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.CategoryID, s.Name, nullable(s.Description), s.IsActive, s.CreatedAt, nullable(s.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create subcategory: %w", err)
	}
	return nil
}

// GetByID obtiene una subcategoría (activa o no).
func (r *SubcategoryRepo) GetByID(ctx context.Context, id string) (*entity.Subcategory, error) {
	s, err := scanSubcategory(r.q.QueryRow(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return s, nil
}

// ListActive subcategorías activas, opcionalmente de una categoría.
func (r *SubcategoryRepo) ListActive(ctx context.Context, categoryID string) ([]*entity.Subcategory, error) {
	query := `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE is_active`
	args := []any{}
	if categoryID != "" {
		query += ` AND category_id = $1`
		args = append(args, categoryID)
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Subcategory, 0)
	for rows.Next() {
		s, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza nombre y descripción; la categoría no cambia.
func (r *SubcategoryRepo) Update(ctx context.Context, s *entity.Subcategory) error {
	return execOne(ctx, r.q, "update subcategory",
		`UPDATE subcategories SET name = $2, description = $3 WHERE id = $1`,
		s.ID, s.Name, nullable(s.Description))
}

// Deactivate baja lógica.
func (r *SubcategoryRepo) Deactivate(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "deactivate subcategory", `UPDATE subcategories SET is_active = FALSE WHERE id = $1`, id)
}

// DeactivateByCategory baja lógica de todas las subcategorías de la categoría.
func (r *SubcategoryRepo) DeactivateByCategory(ctx context.Context, categoryID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE subcategories SET is_active = FALSE WHERE category_id = $1`, categoryID); err != nil {
		return fmt.Errorf("deactivate subcategories: %w", err)
	}
	return nil
}

// ── Clientes ──────────────────────────────────────────────────────────────

// CustomerRepo clientes sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `
	id, first_name, COALESCE(last_name, ''), COALESCE(dni, ''), phone, COALESCE(email, ''),
	COALESCE(address, ''), tags, is_active, created_at, updated_at, COALESCE(created_by, '')`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DNI, &c.Phone, &c.Email,
		&c.Address, &c.Tags, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func customerTags(c *entity.Customer) []string {
	if c.Tags == nil {
		return []string{}
	}
	return c.Tags
}

// Create inserta un cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, first_name, last_name, dni, phone, email, address, tags,
			is_active, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.FirstName, nullable(c.LastName), nullable(c.DNI), c.Phone, nullable(c.Email),
		nullable(c.Address), customerTags(c), c.IsActive, c.CreatedAt, c.UpdatedAt, nullable(c.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente (activo o no).
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListActive clientes activos; term busca en nombre, apellidos, DNI y teléfono.
func (r *CustomerRepo) ListActive(ctx context.Context, term string) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE is_active`
	args := []any{}
	if term = strings.TrimSpace(term); term != "" {
		query += ` AND (first_name ILIKE $1 OR last_name ILIKE $1 OR dni ILIKE $1 OR phone LIKE $1)`
		args = append(args, "%"+term+"%")
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY last_name, first_name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos de contacto.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return execOne(ctx, r.q, "update customer", `
		UPDATE customers SET first_name = $2, last_name = $3, dni = $4, phone = $5, email = $6,
			address = $7, tags = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.FirstName, nullable(c.LastName), nullable(c.DNI), c.Phone, nullable(c.Email),
		nullable(c.Address), customerTags(c), c.UpdatedAt)
}

// Deactivate baja lógica.
func (r *CustomerRepo) Deactivate(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "deactivate customer",
		`UPDATE customers SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
}

// ── Proveedores ───────────────────────────────────────────────────────────

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `
	id, name, COALESCE(tax_id, ''), COALESCE(contact_person, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(address, ''), COALESCE(website, ''), COALESCE(notes, ''),
	is_active, created_at, COALESCE(created_by, '')`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.ContactPerson, &s.Phone,
		&s.Email, &s.Address, &s.Website, &s.Notes, &s.IsActive, &s.CreatedAt, &s.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, name, tax_id, contact_person, phone, email, address, website,
			notes, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.Name, nullable(s.TaxID), nullable(s.ContactPerson), nullable(s.Phone), nullable(s.Email),
		nullable(s.Address), nullable(s.Website), nullable(s.Notes), s.IsActive, s.CreatedAt, nullable(s.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor (activo o no).
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// ListActive proveedores activos ordenados por nombre.
func (r *SupplierRepo) ListActive(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza los datos del proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return execOne(ctx, r.q, "update supplier", `
		UPDATE suppliers SET name = $2, tax_id = $3, contact_person = $4, phone = $5, email = $6,
			address = $7, website = $8, notes = $9
		WHERE id = $1`,
		s.ID, s.Name, nullable(s.TaxID), nullable(s.ContactPerson), nullable(s.Phone), nullable(s.Email),
		nullable(s.Address), nullable(s.Website), nullable(s.Notes))
}

// Deactivate baja lógica.
func (r *SupplierRepo) Deactivate(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "deactivate supplier", `UPDATE suppliers SET is_active = FALSE WHERE id = $1`, id)
}
