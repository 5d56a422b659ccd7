package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
	"github.com/londor/les-inventario/pkg/logger"
)

// MovementTypeRegistryUseCase gestiona el catálogo de tipos de movimiento.
type MovementTypeRegistryUseCase struct {
	txRunner TxRunner
	repo     repository.MovementTypeRepository
	cache    MovementTypeCache
	log      *logger.Logger

	mu     sync.Mutex
	seeded bool
}

// NewMovementTypeRegistryUseCase construye el registro. cache y log son opcionales.
func NewMovementTypeRegistryUseCase(
	txRunner TxRunner,
	repo repository.MovementTypeRepository,
	cache MovementTypeCache,
	log *logger.Logger,
) *MovementTypeRegistryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementTypeRegistryUseCase{
		txRunner: txRunner,
		repo:     repo,
		cache:    cache,
		log:      log.Named("movement_types"),
	}
}

// EnsureSeeded inserta los tipos estándar que falten. Es idempotente: los IDs son fijos
// y la inserción ignora los ya existentes, así que llamadas concurrentes (incluso desde
// varios procesos) nunca producen duplicados.
func (uc *MovementTypeRegistryUseCase) EnsureSeeded(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.seeded {
		return nil
	}

	builtins := entity.BuiltinMovementTypes(time.Now().UTC())
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		return repos.MovementTypes.InsertMissing(ctx, builtins)
	})
	if err != nil {
		return err
	}
	uc.seeded = true
	uc.log.Debug().Int("count", len(builtins)).Msg("catálogo de tipos de movimiento sembrado")
	return nil
}

// GetMovementTypes devuelve los tipos activos ordenados por código. Siembra si hace falta.
func (uc *MovementTypeRegistryUseCase) GetMovementTypes(ctx context.Context) ([]*entity.MovementType, error) {
	if err := uc.EnsureSeeded(ctx); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		cached, err := uc.cache.GetMovementTypes(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("leer tipos de movimiento de caché")
		} else if cached != nil {
			return cached, nil
		}
	}

	types, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(types, func(i, j int) bool { return types[i].Code < types[j].Code })

	if uc.cache != nil {
		if err := uc.cache.SetMovementTypes(ctx, types); err != nil {
			uc.log.Warn().Err(err).Msg("guardar tipos de movimiento en caché")
		}
	}
	return types, nil
}
