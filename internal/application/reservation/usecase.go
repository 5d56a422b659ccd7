package reservation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
	"github.com/londor/les-inventario/pkg/logger"
)

// UseCase gestiona apartados. Cada cambio de estado de la pieza pasa por el registrador de
// movimientos dentro de la misma transacción que la reserva.
type UseCase struct {
	txRunner     inventory.TxRunner
	reservations repository.ReservationRepository
	recorder     *inventory.RecordMovementUseCase
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso de reservas.
func NewUseCase(
	txRunner inventory.TxRunner,
	reservations repository.ReservationRepository,
	recorder *inventory.RecordMovementUseCase,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:     txRunner,
		reservations: reservations,
		recorder:     recorder,
		log:          log.Named("reservations"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create aparta la pieza: crea la reserva ACTIVE y registra un movimiento RESERVE hacia
// el estado Reservado. Una pieza sólo puede tener una reserva activa.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	if strings.TrimSpace(in.ItemID) == "" {
		return nil, domain.NewValidationError("itemId", "es obligatorio")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.NewValidationError("customerId", "es obligatorio")
	}
	if in.DepositAmount.IsNegative() {
		return nil, domain.NewValidationError("depositAmount", "no puede ser negativo")
	}
	now := uc.now()
	if !in.ExpiryDate.After(now) {
		return nil, domain.NewValidationError("expiryDate", "debe ser posterior a la fecha actual")
	}

	start := time.Now()
	var (
		res *entity.Reservation
		mov *entity.InventoryMovement
	)
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepositories) error {
		customer, err := repos.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || !customer.IsActive {
			return domain.NewValidationError("customerId", "cliente inexistente o inactivo")
		}
		// Bloquea la pieza antes de comprobar reservas: dos apartados simultáneos se serializan
		item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		active, err := repos.Reservations.GetActiveByItem(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.ErrConflict
		}

		res = &entity.Reservation{
			ID:            uuid.New().String(),
			ItemID:        in.ItemID,
			CustomerID:    in.CustomerID,
			LocationID:    in.LocationID,
			StartDate:     now,
			ExpiryDate:    in.ExpiryDate.UTC(),
			Status:        entity.ReservationActive,
			DepositAmount: in.DepositAmount,
			Notes:         in.Notes,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if res.LocationID == "" {
			res.LocationID = item.LocationID()
		}

		mov, err = uc.recorder.RecordInTx(ctx, repos, inventory.RecordMovementInput{
			ItemID:           in.ItemID,
			MovementTypeCode: entity.MovementCodeReserve,
			ToStatusID:       entity.StatusReserved,
			DocumentType:     entity.DocumentTypeReservation,
			DocumentID:       res.ID,
			Reason:           "Apartado de cliente",
			Notes:            in.Notes,
			PerformedBy:      userID,
		})
		if err != nil {
			return err
		}
		res.MovementID = mov.ID
		return repos.Reservations.Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.AfterCommit(ctx, time.Since(start), mov)
	return toReservationResponse(res), nil
}

// Resolve cierra una reserva activa. RESOLVED registra una venta (estado Vendido);
// CANCELLED y EXPIRED devuelven la pieza a Disponible.
func (uc *UseCase) Resolve(ctx context.Context, userID, reservationID string, in dto.ResolveReservationRequest) (*dto.ReservationResponse, error) {
	movementCode, toStatus, err := resolutionMovement(in.Status)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		res *entity.Reservation
		mov *entity.InventoryMovement
	)
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepositories) error {
		var err error
		res, mov, err = uc.resolveInTx(ctx, repos, reservationID, userID, in.Status, in.Note, movementCode, toStatus)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.AfterCommit(ctx, time.Since(start), mov)
	return toReservationResponse(res), nil
}

func (uc *UseCase) resolveInTx(
	ctx context.Context,
	repos inventory.TxRepositories,
	reservationID, userID, status, note, movementCode, toStatus string,
) (*entity.Reservation, *entity.InventoryMovement, error) {
	res, err := repos.Reservations.GetForUpdate(ctx, reservationID)
	if err != nil {
		return nil, nil, err
	}
	if res == nil {
		return nil, nil, domain.ErrNotFound
	}
	if !res.IsActive() {
		return nil, nil, domain.ErrConflict
	}

	mov, err := uc.recorder.RecordInTx(ctx, repos, inventory.RecordMovementInput{
		ItemID:           res.ItemID,
		MovementTypeCode: movementCode,
		ToStatusID:       toStatus,
		DocumentType:     entity.DocumentTypeReservation,
		DocumentID:       res.ID,
		Reason:           resolutionReason(status),
		Notes:            note,
		PerformedBy:      userID,
	})
	if err != nil {
		return nil, nil, err
	}

	now := uc.now()
	res.Status = status
	res.ResolutionNote = note
	res.ResolvedAt = &now
	res.ResolvedBy = userID
	if err := repos.Reservations.Resolve(ctx, res); err != nil {
		return nil, nil, err
	}
	return res, mov, nil
}

// ExpireOverdue marca como EXPIRED las reservas activas vencidas y devuelve la pieza a Disponible.
// Cada reserva va en su propia transacción: un fallo no impide expirar el resto.
func (uc *UseCase) ExpireOverdue(ctx context.Context, userID string) ([]string, error) {
	now := uc.now()
	overdue, err := uc.reservations.ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	expired := make([]string, 0, len(overdue))
	for _, r := range overdue {
		start := time.Now()
		var mov *entity.InventoryMovement
		err := uc.txRunner.Run(ctx, func(repos inventory.TxRepositories) error {
			var err error
			_, mov, err = uc.resolveInTx(ctx, repos, r.ID, userID, entity.ReservationExpired,
				"Vencimiento automático", entity.MovementCodeStatusChange, entity.StatusAvailable)
			return err
		})
		if err != nil {
			// Otra petición pudo cerrarla entre el listado y el bloqueo
			uc.log.Warn().Err(err).Str("reservation_id", r.ID).Msg("no se pudo expirar la reserva")
			continue
		}
		uc.recorder.AfterCommit(ctx, time.Since(start), mov)
		expired = append(expired, r.ID)
	}
	if len(expired) > 0 {
		uc.log.Info().Int("count", len(expired)).Msg("reservas vencidas expiradas")
	}
	return expired, nil
}

// GetByID obtiene una reserva por ID.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	res, err := uc.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return toReservationResponse(res), nil
}

// ListActive lista las reservas vigentes.
func (uc *UseCase) ListActive(ctx context.Context) ([]dto.ReservationResponse, error) {
	list, err := uc.reservations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toReservationResponse(r))
	}
	return out, nil
}

func resolutionMovement(status string) (movementCode, toStatus string, err error) {
	switch status {
	case entity.ReservationResolved:
		return entity.MovementCodeSale, entity.StatusSold, nil
	case entity.ReservationCancelled, entity.ReservationExpired:
		return entity.MovementCodeStatusChange, entity.StatusAvailable, nil
	default:
		return "", "", domain.NewValidationError("status", "debe ser RESOLVED, CANCELLED o EXPIRED")
	}
}

func resolutionReason(status string) string {
	switch status {
	case entity.ReservationResolved:
		return "Venta de pieza apartada"
	case entity.ReservationCancelled:
		return "Reserva cancelada"
	default:
		return "Reserva vencida"
	}
}

func toReservationResponse(r *entity.Reservation) *dto.ReservationResponse {
	if r == nil {
		return nil
	}
	return &dto.ReservationResponse{
		ID:             r.ID,
		ItemID:         r.ItemID,
		CustomerID:     r.CustomerID,
		LocationID:     r.LocationID,
		StartDate:      r.StartDate,
		ExpiryDate:     r.ExpiryDate,
		Status:         r.Status,
		DepositAmount:  r.DepositAmount,
		Notes:          r.Notes,
		ResolutionNote: r.ResolutionNote,
		ResolvedAt:     r.ResolvedAt,
		ResolvedBy:     r.ResolvedBy,
		MovementID:     r.MovementID,
		CreatedAt:      r.CreatedAt,
		CreatedBy:      r.CreatedBy,
	}
}
