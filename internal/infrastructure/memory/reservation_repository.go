package memory

import (
	"context"
	"sort"
	"time"

	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
)

type reservationRepo struct{ sc scope }

func copyReservation(r *entity.Reservation) *entity.Reservation {
	c := *r
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func (r reservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.reservations[res.ID]; ok {
		return domain.ErrDuplicate
	}
	// Índice único parcial: una sola reserva ACTIVE por pieza
	if res.IsActive() {
		for _, existing := range st.reservations {
			if existing.ItemID == res.ItemID && existing.IsActive() {
				return domain.ErrDuplicate
			}
		}
	}
	st.reservations[res.ID] = copyReservation(res)
	return nil
}

func (r reservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	st, release := r.sc.acquire()
	defer release()
	res, ok := st.reservations[id]
	if !ok {
		return nil, nil
	}
	return copyReservation(res), nil
}

func (r reservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r reservationRepo) GetActiveByItem(_ context.Context, itemID string) (*entity.Reservation, error) {
	st, release := r.sc.acquire()
	defer release()
	for _, res := range st.reservations {
		if res.ItemID == itemID && res.IsActive() {
			return copyReservation(res), nil
		}
	}
	return nil, nil
}

func (r reservationRepo) ListActive(_ context.Context) ([]*entity.Reservation, error) {
	return r.list(func(res *entity.Reservation) bool { return res.IsActive() })
}

func (r reservationRepo) ListExpired(_ context.Context, now time.Time) ([]*entity.Reservation, error) {
	return r.list(func(res *entity.Reservation) bool {
		return res.IsActive() && res.ExpiryDate.Before(now)
	})
}

func (r reservationRepo) list(keep func(*entity.Reservation) bool) ([]*entity.Reservation, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.Reservation, 0)
	for _, res := range st.reservations {
		if keep(res) {
			out = append(out, copyReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r reservationRepo) Resolve(_ context.Context, res *entity.Reservation) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.reservations[res.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyReservation(stored)
	c.Status = res.Status
	c.ResolutionNote = res.ResolutionNote
	c.ResolvedAt = res.ResolvedAt
	c.ResolvedBy = res.ResolvedBy
	st.reservations[res.ID] = copyReservation(c)
	return nil
}
