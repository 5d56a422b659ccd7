package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

var (
	_ repository.MovementTypeRepository      = (*MovementTypeRepo)(nil)
	_ repository.LocationRepository          = (*LocationRepo)(nil)
	_ repository.OperationalStatusRepository = (*OperationalStatusRepo)(nil)
)

// ── Tipos de movimiento ───────────────────────────────────────────────────

// MovementTypeRepo catálogo de tipos de movimiento.
type MovementTypeRepo struct {
	q Querier
}

// NewMovementTypeRepository construye el adaptador.
func NewMovementTypeRepository(q Querier) *MovementTypeRepo {
	return &MovementTypeRepo{q: q}
}

// ListActive tipos activos ordenados por código.
func (r *MovementTypeRepo) ListActive(ctx context.Context) ([]*entity.MovementType, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, code, name, is_active, created_at
		FROM movement_types WHERE is_active ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list movement types: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MovementType, 0)
	for rows.Next() {
		var t entity.MovementType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// GetByCode obtiene un tipo por su código (activo o no).
func (r *MovementTypeRepo) GetByCode(ctx context.Context, code string) (*entity.MovementType, error) {
	var t entity.MovementType
	err := r.q.QueryRow(ctx, `
		SELECT id, code, name, is_active, created_at
		FROM movement_types WHERE code = $1`, code,
	).Scan(&t.ID, &t.Code, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement type: %w", err)
	}
	return &t, nil
}

// InsertMissing inserta los tipos que falten; ON CONFLICT DO NOTHING hace la siembra idempotente
// aunque varios procesos siembren a la vez.
func (r *MovementTypeRepo) InsertMissing(ctx context.Context, types []*entity.MovementType) error {
	for _, t := range types {
		_, err := r.q.Exec(ctx, `
			INSERT INTO movement_types (id, code, name, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT DO NOTHING`,
			t.ID, t.Code, t.Name, t.IsActive, t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("seed movement type %s: %w", t.Code, err)
		}
	}
	return nil
}

// ── Ubicaciones ───────────────────────────────────────────────────────────

// LocationRepo ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, name, type, COALESCE(address, ''), is_active, created_at, COALESCE(created_by, '')`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.Name, &l.Type, &l.Address, &l.IsActive, &l.CreatedAt, &l.CreatedBy); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserta una ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO locations (id, name, type, address, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.Name, l.Type, nullable(l.Address), l.IsActive, l.CreatedAt, nullable(l.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación (activa o no).
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// ListActive ubicaciones activas ordenadas por nombre.
func (r *LocationRepo) ListActive(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM locations WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update actualiza nombre, tipo y dirección.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	tag, err := r.q.Exec(ctx, `UPDATE locations SET name = $2, type = $3, address = $4 WHERE id = $1`,
		l.ID, l.Name, l.Type, nullable(l.Address))
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Upsert inserta o actualiza por ID (carga de maestros).
func (r *LocationRepo) Upsert(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO locations (id, name, type, address, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, type = EXCLUDED.type, address = EXCLUDED.address, is_active = EXCLUDED.is_active`,
		l.ID, l.Name, l.Type, nullable(l.Address), l.IsActive, l.CreatedAt, nullable(l.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

// Deactivate baja lógica.
func (r *LocationRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE locations SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── Estados operativos ────────────────────────────────────────────────────

// OperationalStatusRepo estados operativos sobre PostgreSQL.
type OperationalStatusRepo struct {
	q Querier
}

// NewOperationalStatusRepository construye el adaptador.
func NewOperationalStatusRepository(q Querier) *OperationalStatusRepo {
	return &OperationalStatusRepo{q: q}
}

const statusColumns = `id, name, COALESCE(color, ''), is_active, created_at, COALESCE(created_by, '')`

func scanStatus(row pgx.Row) (*entity.OperationalStatus, error) {
	var s entity.OperationalStatus
	if err := row.Scan(&s.ID, &s.Name, &s.Color, &s.IsActive, &s.CreatedAt, &s.CreatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un estado operativo.
func (r *OperationalStatusRepo) Create(ctx context.Context, s *entity.OperationalStatus) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO operational_statuses (id, name, color, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, nullable(s.Color), s.IsActive, s.CreatedAt, nullable(s.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create status: %w", err)
	}
	return nil
}

// GetByID obtiene un estado (activo o no).
func (r *OperationalStatusRepo) GetByID(ctx context.Context, id string) (*entity.OperationalStatus, error) {
	s, err := scanStatus(r.q.QueryRow(ctx, `SELECT `+statusColumns+` FROM operational_statuses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get status: %w", err)
	}
	return s, nil
}

// ListActive estados activos ordenados por nombre.
func (r *OperationalStatusRepo) ListActive(ctx context.Context) ([]*entity.OperationalStatus, error) {
	rows, err := r.q.Query(ctx, `SELECT `+statusColumns+` FROM operational_statuses WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.OperationalStatus, 0)
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza nombre y color.
func (r *OperationalStatusRepo) Update(ctx context.Context, s *entity.OperationalStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE operational_statuses SET name = $2, color = $3 WHERE id = $1`,
		s.ID, s.Name, nullable(s.Color))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertMissing inserta los estados que falten.
func (r *OperationalStatusRepo) InsertMissing(ctx context.Context, statuses []*entity.OperationalStatus) error {
	for _, s := range statuses {
		_, err := r.q.Exec(ctx, `
			INSERT INTO operational_statuses (id, name, color, is_active, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Name, nullable(s.Color), s.IsActive, s.CreatedAt, nullable(s.CreatedBy),
		)
		if err != nil {
			return fmt.Errorf("seed status %s: %w", s.ID, err)
		}
	}
	return nil
}

// Deactivate baja lógica.
func (r *OperationalStatusRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE operational_statuses SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
