package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el libro de movimientos.
type HistoryUseCase struct {
	items     repository.InventoryItemRepository
	movements repository.InventoryMovementRepository
	types     repository.MovementTypeRepository
	locations repository.LocationRepository
	statuses  repository.OperationalStatusRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(
	items repository.InventoryItemRepository,
	movements repository.InventoryMovementRepository,
	types repository.MovementTypeRepository,
	locations repository.LocationRepository,
	statuses repository.OperationalStatusRepository,
) *HistoryUseCase {
	return &HistoryUseCase{
		items:     items,
		movements: movements,
		types:     types,
		locations: locations,
		statuses:  statuses,
	}
}

// GetHistory devuelve los movimientos de la pieza del más reciente al más antiguo.
// Una pieza sin movimientos (o inexistente) devuelve una lista vacía.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, itemID string) ([]*entity.InventoryMovement, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, domain.NewValidationError("itemId", "es obligatorio")
	}
	list, err := uc.movements.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.InventoryMovement{}
	}
	return list, nil
}

// BuildTraceabilityReport reúne pieza, historial y nombres de catálogo para exportar.
func (uc *HistoryUseCase) BuildTraceabilityReport(ctx context.Context, itemID string) (*TraceabilityReport, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, domain.NewValidationError("itemId", "es obligatorio")
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.GetHistory(ctx, itemID)
	if err != nil {
		return nil, err
	}

	report := &TraceabilityReport{
		Item:          item,
		Movements:     movements,
		LocationNames: map[string]string{},
		StatusNames:   map[string]string{},
		TypeNames:     map[string]string{},
		GeneratedAt:   time.Now().UTC(),
	}

	types, err := uc.types.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		report.TypeNames[t.ID] = t.Name
	}

	// Las ubicaciones/estados inactivos siguen apareciendo en el historial: se resuelven uno a uno.
	for _, m := range movements {
		for _, id := range []string{m.FromLocationID, m.ToLocationID} {
			if err := uc.resolveLocation(ctx, report, id); err != nil {
				return nil, err
			}
		}
		for _, id := range []string{m.FromStatusID, m.ToStatusID} {
			if err := uc.resolveStatus(ctx, report, id); err != nil {
				return nil, err
			}
		}
	}
	return report, nil
}

func (uc *HistoryUseCase) resolveLocation(ctx context.Context, report *TraceabilityReport, id string) error {
	if id == "" {
		return nil
	}
	if _, ok := report.LocationNames[id]; ok {
		return nil
	}
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc != nil {
		report.LocationNames[id] = loc.Name
	}
	return nil
}

func (uc *HistoryUseCase) resolveStatus(ctx context.Context, report *TraceabilityReport, id string) error {
	if id == "" {
		return nil
	}
	if _, ok := report.StatusNames[id]; ok {
		return nil
	}
	st, err := uc.statuses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if st != nil {
		report.StatusNames[id] = st.Name
	}
	return nil
}
