package cache

import (
	"context"
	"errors"
	"time"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain/entity"
)

const movementTypesKey = "les:movement_types:active"

var _ inventory.MovementTypeCache = (*MovementTypeCache)(nil)

// MovementTypeCache cachea el listado de tipos activos sobre cualquier Cache.
type MovementTypeCache struct {
	cache Cache
	ttl   time.Duration
}

// NewMovementTypeCache construye el adaptador. ttl <= 0 usa 5 minutos.
func NewMovementTypeCache(c Cache, ttl time.Duration) *MovementTypeCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MovementTypeCache{cache: c, ttl: ttl}
}

type cachedMovementType struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// GetMovementTypes devuelve (nil, nil) si no hay entrada.
func (c *MovementTypeCache) GetMovementTypes(ctx context.Context) ([]*entity.MovementType, error) {
	var cached []cachedMovementType
	if err := GetJSON(ctx, c.cache, movementTypesKey, &cached); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]*entity.MovementType, 0, len(cached))
	for _, t := range cached {
		out = append(out, &entity.MovementType{
			ID: t.ID, Code: t.Code, Name: t.Name, IsActive: t.IsActive, CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}

// SetMovementTypes guarda el listado.
func (c *MovementTypeCache) SetMovementTypes(ctx context.Context, types []*entity.MovementType) error {
	cached := make([]cachedMovementType, 0, len(types))
	for _, t := range types {
		cached = append(cached, cachedMovementType{
			ID: t.ID, Code: t.Code, Name: t.Name, IsActive: t.IsActive, CreatedAt: t.CreatedAt,
		})
	}
	return SetJSON(ctx, c.cache, movementTypesKey, cached, c.ttl)
}
