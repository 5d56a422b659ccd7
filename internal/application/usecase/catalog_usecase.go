package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

// CatalogUseCase casos de uso CRUD para ubicaciones y estados operativos.
// La baja es lógica: los movimientos históricos siguen referenciando el registro.
type CatalogUseCase struct {
	locations repository.LocationRepository
	statuses  repository.OperationalStatusRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(locations repository.LocationRepository, statuses repository.OperationalStatusRepository) *CatalogUseCase {
	return &CatalogUseCase{locations: locations, statuses: statuses}
}

// EnsureDefaultStatuses siembra Disponible, Vendido y Reservado si faltan.
func (uc *CatalogUseCase) EnsureDefaultStatuses(ctx context.Context) error {
	return uc.statuses.InsertMissing(ctx, entity.DefaultOperationalStatuses(time.Now().UTC()))
}

// CreateLocation crea una nueva ubicación.
func (uc *CatalogUseCase) CreateLocation(ctx context.Context, userID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if !entity.ValidLocationType(in.Type) {
		return nil, domain.NewValidationError("type", "debe ser WORKSHOP, STORE u OTHER")
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	loc := &entity.Location{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}
	if err := uc.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetLocation obtiene una ubicación por ID (incluidas las inactivas).
func (uc *CatalogUseCase) GetLocation(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// ListLocations lista las ubicaciones activas.
func (uc *CatalogUseCase) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.locations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// UpdateLocation actualiza nombre, tipo o dirección.
func (uc *CatalogUseCase) UpdateLocation(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		loc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		if !entity.ValidLocationType(*in.Type) {
			return nil, domain.NewValidationError("type", "debe ser WORKSHOP, STORE u OTHER")
		}
		loc.Type = *in.Type
	}
	if in.Address != nil {
		loc.Address = *in.Address
	}
	if err := uc.locations.Update(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// DeactivateLocation baja lógica de la ubicación.
func (uc *CatalogUseCase) DeactivateLocation(ctx context.Context, id string) error {
	return uc.locations.Deactivate(ctx, id)
}

// CreateStatus crea un estado operativo.
func (uc *CatalogUseCase) CreateStatus(ctx context.Context, userID string, in dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	st := &entity.OperationalStatus{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Color:     in.Color,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}
	if err := uc.statuses.Create(ctx, st); err != nil {
		return nil, err
	}
	return toStatusResponse(st), nil
}

// GetStatus obtiene un estado por ID.
func (uc *CatalogUseCase) GetStatus(ctx context.Context, id string) (*dto.StatusResponse, error) {
	st, err := uc.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	return toStatusResponse(st), nil
}

// ListStatuses lista los estados activos.
func (uc *CatalogUseCase) ListStatuses(ctx context.Context) ([]dto.StatusResponse, error) {
	list, err := uc.statuses.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStatusResponse(s))
	}
	return out, nil
}

// UpdateStatus actualiza nombre o color.
func (uc *CatalogUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateStatusRequest) (*dto.StatusResponse, error) {
	st, err := uc.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		st.Name = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		st.Color = *in.Color
	}
	if err := uc.statuses.Update(ctx, st); err != nil {
		return nil, err
	}
	return toStatusResponse(st), nil
}

// DeactivateStatus baja lógica. Los estados estándar no se pueden desactivar:
// las reservas dependen de ellos.
func (uc *CatalogUseCase) DeactivateStatus(ctx context.Context, id string) error {
	switch id {
	case entity.StatusAvailable, entity.StatusSold, entity.StatusReserved:
		return domain.ErrConflict
	}
	return uc.statuses.Deactivate(ctx, id)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Type:      l.Type,
		Address:   l.Address,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		CreatedBy: l.CreatedBy,
	}
}

func toStatusResponse(s *entity.OperationalStatus) *dto.StatusResponse {
	return &dto.StatusResponse{
		ID:        s.ID,
		Name:      s.Name,
		Color:     s.Color,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		CreatedBy: s.CreatedBy,
	}
}
