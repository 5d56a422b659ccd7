package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/pkg/logger"
)

// RecordMovementUseCase es la única vía de cambio de ubicación/estado de una pieza.
// Inserta el movimiento y actualiza la pieza en la misma transacción, con la fila de la pieza
// bloqueada (SELECT FOR UPDATE), de modo que pieza y libro nunca divergen.
type RecordMovementUseCase struct {
	txRunner  TxRunner
	publisher MovementPublisher
	observer  MovementObserver
	log       *logger.Logger
}

// NewRecordMovementUseCase construye el caso de uso. publisher, observer y log son opcionales.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	publisher MovementPublisher,
	observer MovementObserver,
	log *logger.Logger,
) *RecordMovementUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordMovementUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		observer:  observer,
		log:       log.Named("movement_recorder"),
	}
}

// RecordMovementInput entrada para registrar un movimiento.
// ToLocationID/ToStatusID vacíos significan "sin cambio".
type RecordMovementInput struct {
	ItemID           string
	MovementTypeCode string
	ToLocationID     string
	ToStatusID       string
	DocumentType     string
	DocumentID       string
	Reason           string
	Notes            string
	PerformedBy      string
}

// Validate comprueba los campos obligatorios antes de abrir la transacción.
func (in RecordMovementInput) Validate() error {
	if strings.TrimSpace(in.ItemID) == "" {
		return domain.NewValidationError("itemId", "es obligatorio")
	}
	if strings.TrimSpace(in.MovementTypeCode) == "" {
		return domain.NewValidationError("movementTypeCode", "es obligatorio")
	}
	if strings.TrimSpace(in.PerformedBy) == "" {
		return domain.NewValidationError("performedBy", "es obligatorio")
	}
	return nil
}

// RecordMovement registra el movimiento en su propia transacción y devuelve su ID.
// Los errores se devuelven sin transformar: ErrNotFound, ErrInvalidMovementType,
// ErrTransactionConflict o *domain.ValidationError.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, in RecordMovementInput) (string, error) {
	start := time.Now()
	if err := in.Validate(); err != nil {
		uc.observer.MovementFailed(failureReason(err))
		return "", err
	}

	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		m, err := uc.RecordInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		uc.observer.MovementFailed(failureReason(err))
		uc.log.Warn().Err(err).
			Str("item_id", in.ItemID).
			Str("movement_type", in.MovementTypeCode).
			Msg("movimiento no registrado")
		return "", err
	}

	uc.AfterCommit(ctx, time.Since(start), mov)
	return mov.ID, nil
}

// RecordInTx registra el movimiento usando los repositorios de una transacción abierta por el
// llamador (alta de pieza, reservas). El llamador debe invocar AfterCommit tras el commit.
func (uc *RecordMovementUseCase) RecordInTx(ctx context.Context, repos TxRepositories, in RecordMovementInput) (*entity.InventoryMovement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Lectura de la ubicación actual dentro de la transacción, con la fila bloqueada
	item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	mt, err := repos.MovementTypes.GetByCode(ctx, in.MovementTypeCode)
	if err != nil {
		return nil, err
	}
	if mt == nil || !mt.IsActive {
		return nil, domain.ErrInvalidMovementType
	}

	current := item.Placement()
	toLocation := firstNonEmpty(in.ToLocationID, current.LocationID)
	toStatus := firstNonEmpty(in.ToStatusID, current.StatusID)

	if toLocation != current.LocationID {
		loc, err := repos.Locations.GetByID(ctx, toLocation)
		if err != nil {
			return nil, err
		}
		if loc == nil || !loc.IsActive {
			return nil, domain.NewValidationError("toLocationId", "ubicación inexistente o inactiva")
		}
	}
	if toStatus != current.StatusID {
		st, err := repos.Statuses.GetByID(ctx, toStatus)
		if err != nil {
			return nil, err
		}
		if st == nil || !st.IsActive {
			return nil, domain.NewValidationError("toStatusId", "estado operativo inexistente o inactivo")
		}
	}

	mov := &entity.InventoryMovement{
		ItemID:           item.ID,
		MovementTypeID:   mt.ID,
		MovementTypeCode: mt.Code,
		FromLocationID:   current.LocationID,
		ToLocationID:     toLocation,
		FromStatusID:     current.StatusID,
		ToStatusID:       toStatus,
		DocumentType:     in.DocumentType,
		DocumentID:       in.DocumentID,
		Reason:           in.Reason,
		Notes:            in.Notes,
		PerformedBy:      in.PerformedBy,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := item.ApplyMovement(mov); err != nil {
		return nil, err
	}
	if err := repos.Items.UpdatePlacement(ctx, item); err != nil {
		return nil, err
	}
	return mov, nil
}

// AfterCommit registra métricas, log y publica los movimientos ya confirmados.
// Un fallo al publicar no afecta al movimiento: ya está en el libro.
func (uc *RecordMovementUseCase) AfterCommit(ctx context.Context, elapsed time.Duration, movements ...*entity.InventoryMovement) {
	for _, mov := range movements {
		if mov == nil {
			continue
		}
		uc.observer.MovementRecorded(mov.MovementTypeCode, elapsed)
		uc.log.Info().
			Str("movement_id", mov.ID).
			Str("item_id", mov.ItemID).
			Str("movement_type", mov.MovementTypeCode).
			Str("from_location", mov.FromLocationID).
			Str("to_location", mov.ToLocationID).
			Str("from_status", mov.FromStatusID).
			Str("to_status", mov.ToStatusID).
			Str("performed_by", mov.PerformedBy).
			Msg("movimiento registrado")

		if err := uc.publisher.PublishMovementRecorded(ctx, NewMovementRecordedEvent(mov)); err != nil {
			uc.observer.PublishFailed()
			uc.log.Error().Err(err).Str("movement_id", mov.ID).Msg("publicar movimiento")
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidMovementType):
		return "invalid_type"
	case errors.Is(err, domain.ErrTransactionConflict):
		return "conflict"
	default:
		return "error"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
