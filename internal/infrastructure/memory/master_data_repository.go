package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
)

// ── Categorías ────────────────────────────────────────────────────────────

type categoryRepo struct{ sc scope }

func (r categoryRepo) Create(_ context.Context, cat *entity.Category) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.categories[cat.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *cat
	st.categories[cat.ID] = &c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	st, release := r.sc.acquire()
	defer release()
	cat, ok := st.categories[id]
	if !ok {
		return nil, nil
	}
	c := *cat
	return &c, nil
}

func (r categoryRepo) ListActive(_ context.Context) ([]*entity.Category, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.Category, 0, len(st.categories))
	for _, cat := range st.categories {
		if cat.IsActive {
			c := *cat
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) Update(_ context.Context, cat *entity.Category) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.categories[cat.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.Name, c.Description = cat.Name, cat.Description
	st.categories[cat.ID] = &c
	return nil
}

func (r categoryRepo) InsertMissing(_ context.Context, categories []*entity.Category) error {
	st, release := r.sc.acquire()
	defer release()
	for _, cat := range categories {
		if _, ok := st.categories[cat.ID]; ok {
			continue
		}
		c := *cat
		st.categories[cat.ID] = &c
	}
	return nil
}

func (r categoryRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.IsActive = false
	st.categories[id] = &c
	return nil
}

// ── Subcategorías ─────────────────────────────────────────────────────────

type subcategoryRepo struct{ sc scope }

func (r subcategoryRepo) Create(_ context.Context, sub *entity.Subcategory) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.subcats[sub.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, s := range st.subcats {
		if s.CategoryID == sub.CategoryID && strings.EqualFold(s.Name, sub.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *sub
	st.subcats[sub.ID] = &c
	return nil
}

func (r subcategoryRepo) GetByID(_ context.Context, id string) (*entity.Subcategory, error) {
	st, release := r.sc.acquire()
	defer release()
	sub, ok := st.subcats[id]
	if !ok {
		return nil, nil
	}
	c := *sub
	return &c, nil
}

func (r subcategoryRepo) ListActive(_ context.Context, categoryID string) ([]*entity.Subcategory, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.Subcategory, 0)
	for _, sub := range st.subcats {
		if !sub.IsActive || (categoryID != "" && sub.CategoryID != categoryID) {
			continue
		}
		c := *sub
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r subcategoryRepo) Update(_ context.Context, sub *entity.Subcategory) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.subcats[sub.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, s := range st.subcats {
		if s.ID != sub.ID && s.CategoryID == stored.CategoryID && strings.EqualFold(s.Name, sub.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *stored
	c.Name, c.Description = sub.Name, sub.Description
	st.subcats[sub.ID] = &c
	return nil
}

func (r subcategoryRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.subcats[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.IsActive = false
	st.subcats[id] = &c
	return nil
}

func (r subcategoryRepo) DeactivateByCategory(_ context.Context, categoryID string) error {
	st, release := r.sc.acquire()
	defer release()
	for id, sub := range st.subcats {
		if sub.CategoryID != categoryID || !sub.IsActive {
			continue
		}
		c := *sub
		c.IsActive = false
		st.subcats[id] = &c
	}
	return nil
}

// ── Clientes ──────────────────────────────────────────────────────────────

type customerRepo struct{ sc scope }

func copyCustomer(cu *entity.Customer) *entity.Customer {
	c := *cu
	if cu.Tags != nil {
		c.Tags = append([]string{}, cu.Tags...)
	}
	return &c
}

func (r customerRepo) Create(_ context.Context, cu *entity.Customer) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.customers[cu.ID]; ok {
		return domain.ErrDuplicate
	}
	st.customers[cu.ID] = copyCustomer(cu)
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	st, release := r.sc.acquire()
	defer release()
	cu, ok := st.customers[id]
	if !ok {
		return nil, nil
	}
	return copyCustomer(cu), nil
}

func (r customerRepo) ListActive(_ context.Context, term string) ([]*entity.Customer, error) {
	st, release := r.sc.acquire()
	defer release()
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]*entity.Customer, 0)
	for _, cu := range st.customers {
		if !cu.IsActive || (term != "" && !customerMatches(cu, term)) {
			continue
		}
		out = append(out, copyCustomer(cu))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func customerMatches(cu *entity.Customer, term string) bool {
	return strings.Contains(strings.ToLower(cu.FirstName), term) ||
		strings.Contains(strings.ToLower(cu.LastName), term) ||
		strings.Contains(strings.ToLower(cu.DNI), term) ||
		strings.Contains(cu.Phone, term)
}

func (r customerRepo) Update(_ context.Context, cu *entity.Customer) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.customers[cu.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyCustomer(cu)
	c.IsActive, c.CreatedAt, c.CreatedBy = stored.IsActive, stored.CreatedAt, stored.CreatedBy
	st.customers[cu.ID] = c
	return nil
}

func (r customerRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyCustomer(stored)
	c.IsActive = false
	c.UpdatedAt = r.sc.store.now()
	st.customers[id] = c
	return nil
}

// ── Proveedores ───────────────────────────────────────────────────────────

type supplierRepo struct{ sc scope }

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *s
	st.suppliers[s.ID] = &c
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	st, release := r.sc.acquire()
	defer release()
	s, ok := st.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r supplierRepo) ListActive(_ context.Context) ([]*entity.Supplier, error) {
	st, release := r.sc.acquire()
	defer release()
	out := make([]*entity.Supplier, 0, len(st.suppliers))
	for _, s := range st.suppliers {
		if s.IsActive {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.suppliers[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *s
	c.IsActive, c.CreatedAt, c.CreatedBy = stored.IsActive, stored.CreatedAt, stored.CreatedBy
	st.suppliers[s.ID] = &c
	return nil
}

func (r supplierRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.suppliers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := *stored
	c.IsActive = false
	st.suppliers[id] = &c
	return nil
}
