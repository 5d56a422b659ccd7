package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

type itemRepo struct{ sc scope }

func copyItem(i *entity.InventoryItem) *entity.InventoryItem {
	c := *i
	if i.Images != nil {
		c.Images = append([]string{}, i.Images...)
	}
	if i.Attributes != nil {
		c.Attributes = append(json.RawMessage{}, i.Attributes...)
	}
	return &c
}

func (r itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	st, release := r.sc.acquire()
	defer release()
	if _, ok := st.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, it := range st.items {
		if item.ItemCode != "" && it.ItemCode == item.ItemCode {
			return domain.ErrDuplicate
		}
	}
	st.items[item.ID] = copyItem(item)
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	st, release := r.sc.acquire()
	defer release()
	it, ok := st.items[id]
	if !ok {
		return nil, nil
	}
	return copyItem(it), nil
}

// GetForUpdate: la transacción ya tiene el acceso exclusivo al estado.
func (r itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r itemRepo) GetByCode(_ context.Context, code string) (*entity.InventoryItem, error) {
	st, release := r.sc.acquire()
	defer release()
	for _, it := range st.items {
		if it.ItemCode == code {
			return copyItem(it), nil
		}
	}
	return nil, nil
}

func (r itemRepo) List(_ context.Context, filter repository.ItemFilter, limit, offset int) ([]*entity.InventoryItem, error) {
	st, release := r.sc.acquire()
	defer release()
	list := make([]*entity.InventoryItem, 0)
	for _, it := range st.items {
		if !it.IsActive {
			continue
		}
		if filter.LocationID != "" && it.LocationID() != filter.LocationID {
			continue
		}
		if filter.SupplierID != "" && it.SupplierID != filter.SupplierID {
			continue
		}
		list = append(list, copyItem(it))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemCode < list[j].ItemCode })
	if offset >= len(list) {
		return []*entity.InventoryItem{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r itemRepo) MaxCodeSequence(_ context.Context, prefix string) (int, error) {
	st, release := r.sc.acquire()
	defer release()
	maxSeq := 0
	for _, it := range st.items {
		if !strings.HasPrefix(it.ItemCode, prefix) {
			continue
		}
		n, ok := codeSequence(it.ItemCode, prefix)
		if ok && n > maxSeq {
			maxSeq = n
		}
	}
	return maxSeq, nil
}

// UpdateDetails conserva la ubicación/estado almacenados.
func (r itemRepo) UpdateDetails(_ context.Context, item *entity.InventoryItem) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyItem(item)
	c.ItemCode = stored.ItemCode
	c.QRCode = stored.QRCode
	c.CreatedAt = stored.CreatedAt
	c.CreatedBy = stored.CreatedBy
	c.IsActive = stored.IsActive
	entity.RestorePlacement(c, stored.Placement())
	st.items[item.ID] = c
	return nil
}

// UpdatePlacement sólo copia ubicación, estado, último movimiento y UpdatedAt.
func (r itemRepo) UpdatePlacement(_ context.Context, item *entity.InventoryItem) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyItem(stored)
	entity.RestorePlacement(c, item.Placement())
	c.UpdatedAt = item.UpdatedAt
	st.items[item.ID] = c
	return nil
}

func (r itemRepo) Deactivate(_ context.Context, id string) error {
	st, release := r.sc.acquire()
	defer release()
	stored, ok := st.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyItem(stored)
	c.IsActive = false
	c.UpdatedAt = r.sc.store.now()
	st.items[id] = c
	return nil
}

// codeSequence extrae el secuencial de code; sólo admite dígitos tras el prefijo.
func codeSequence(code, prefix string) (int, bool) {
	suffix := strings.TrimPrefix(code, prefix)
	if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	return n, err == nil
}
