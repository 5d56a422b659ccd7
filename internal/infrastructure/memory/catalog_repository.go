package memory

import (
	"context"
	"sort"

	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
)

// ── Tipos de movimiento ───────────────────────────────────────────────────

type movementTypeRepo struct{ sc scope }

func (r movementTypeRepo) ListActive(_ context.Context) ([]*entity.MovementType, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.MovementType, 0, len(st.types))
	for _, t := range st.types {
		if t.IsActive {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r movementTypeRepo) GetByCode(_ context.Context, code string) (*entity.MovementType, error) {
	st, release := r.sc.acquire()
	defer release()
	for _, t := range st.types {
		if t.Code == code {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r movementTypeRepo) InsertMissing(_ context.Context, types []*entity.MovementType) error {
	st, release := r.sc.acquire()
	defer release()
	for _, t := range types {
		if _, ok := st.types[t.ID]; ok {
			continue
		}
		c := *t
		st.types[t.ID] = &c
	}
	return nil
}

// ── Ubicaciones ───────────────────────────────────────────────────────────

type locationRepo struct{ sc scope }

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.locations[l.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *l
	st.locations[l.ID] = &c
	return nil
}

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	st, release := r.sc.acquire()
	defer release()
	l, ok := st.locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r locationRepo) ListActive(_ context.Context) ([]*entity.Location, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.Location, 0, len(st.locations))
	for _, l := range st.locations {
		if l.IsActive {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r locationRepo) Update(_ context.Context, l *entity.Location) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.locations[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.Name, c.Type, c.Address = l.Name, l.Type, l.Address
	st.locations[l.ID] = &c
	return nil
}

func (r locationRepo) Upsert(_ context.Context, l *entity.Location) error {
	st, release := r.sc.acquire()
	defer release()
	c := *l
	if stored, ok := st.locations[l.ID]; ok {
		c.CreatedAt, c.CreatedBy = stored.CreatedAt, stored.CreatedBy
	}
	st.locations[l.ID] = &c
	return nil
}

func (r locationRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.locations[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.IsActive = false
	st.locations[id] = &c
	return nil
}

// ── Estados operativos ────────────────────────────────────────────────────

type statusRepo struct{ sc scope }

func (r statusRepo) Create(_ context.Context, s *entity.OperationalStatus) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.statuses[s.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *s
	st.statuses[s.ID] = &c
	return nil
}

func (r statusRepo) GetByID(_ context.Context, id string) (*entity.OperationalStatus, error) {
	st, release := r.sc.acquire()
	defer release()
	s, ok := st.statuses[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r statusRepo) ListActive(_ context.Context) ([]*entity.OperationalStatus, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.OperationalStatus, 0, len(st.statuses))
	for _, s := range st.statuses {
		if s.IsActive {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r statusRepo) Update(_ context.Context, s *entity.OperationalStatus) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.statuses[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.Name, c.Color = s.Name, s.Color
	st.statuses[s.ID] = &c
	return nil
}

func (r statusRepo) InsertMissing(_ context.Context, statuses []*entity.OperationalStatus) error {
	st, release := r.sc.acquire()
	defer release()
	for _, s := range statuses {
		if _, ok := st.statuses[s.ID]; ok {
			continue
		}
		c := *s
		st.statuses[s.ID] = &c
	}
	return nil
}

func (r statusRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.statuses[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.IsActive = false
	st.statuses[id] = &c
	return nil
}
