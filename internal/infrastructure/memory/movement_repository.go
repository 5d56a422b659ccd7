package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
)

type movementRepo struct{ sc scope }

// Create asigna ID y CreatedAt y añade el movimiento al final del libro.
func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.items[m.ItemID]; !ok {
		return domain.ErrNotFound
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	for _, existing := range st.movements {
		if existing.ID == m.ID {
			return domain.ErrDuplicate
		}
	}
	m.CreatedAt = r.sc.nextMovementTime(st)
	c := *m
	st.movements = append(st.movements, &c)
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	st, release := r.sc.acquire()
	defer release()
	for _, m := range st.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

// ListByItem recorre el libro desde el final: del más reciente al más antiguo.
func (r movementRepo) ListByItem(_ context.Context, itemID string) ([]*entity.InventoryMovement, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.InventoryMovement, 0)
	for i := len(st.movements) - 1; i >= 0; i-- {
		if st.movements[i].ItemID == itemID {
			c := *st.movements[i]
			out = append(out, &c)
		}
	}
	return out, nil
}
