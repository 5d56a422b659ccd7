package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo reservas sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `
	id, item_id, customer_id, COALESCE(location_id, ''), start_date, expiry_date, status,
	deposit_amount, COALESCE(notes, ''), COALESCE(resolution_note, ''), resolved_at,
	COALESCE(resolved_by, ''), COALESCE(movement_id, ''), created_at, COALESCE(created_by, '')`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var r entity.Reservation
	err := row.Scan(
		&r.ID, &r.ItemID, &r.CustomerID, &r.LocationID, &r.StartDate, &r.ExpiryDate, &r.Status,
		&r.DepositAmount, &r.Notes, &r.ResolutionNote, &r.ResolvedAt,
		&r.ResolvedBy, &r.MovementID, &r.CreatedAt, &r.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *ReservationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Reservation, error) {
	res, err := scanReservation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// Create inserta la reserva. El índice único parcial impide dos ACTIVE para la misma pieza.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reservations (
			id, item_id, customer_id, location_id, start_date, expiry_date, status,
			deposit_amount, notes, movement_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		res.ID, res.ItemID, res.CustomerID, nullable(res.LocationID), res.StartDate, res.ExpiryDate,
		res.Status, res.DepositAmount, nullable(res.Notes), nullable(res.MovementID),
		res.CreatedAt, nullable(res.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

// GetForUpdate obtiene la reserva bloqueando la fila.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

// GetActiveByItem reserva ACTIVE de la pieza o nil.
func (r *ReservationRepo) GetActiveByItem(ctx context.Context, itemID string) (*entity.Reservation, error) {
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE item_id = $1 AND status = 'ACTIVE'`, itemID)
}

// ListActive reservas vigentes ordenadas por vencimiento.
func (r *ReservationRepo) ListActive(ctx context.Context) ([]*entity.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE status = 'ACTIVE' ORDER BY expiry_date`)
}

// ListExpired reservas ACTIVE vencidas antes de now.
func (r *ReservationRepo) ListExpired(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	return r.list(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE status = 'ACTIVE' AND expiry_date < $1
		ORDER BY expiry_date`, now)
}

// Resolve persiste el cierre de la reserva.
func (r *ReservationRepo) Resolve(ctx context.Context, res *entity.Reservation) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE reservations SET status = $2, resolution_note = $3, resolved_at = $4, resolved_by = $5
		WHERE id = $1`,
		res.ID, res.Status, nullable(res.ResolutionNote), res.ResolvedAt, nullable(res.ResolvedBy),
	)
	if err != nil {
		return fmt.Errorf("resolve reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
