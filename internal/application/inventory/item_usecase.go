package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/domain/repository"
)

// codeRetries intentos de alta cuando dos altas simultáneas generan el mismo código.
const codeRetries = 3

// ItemConfig parámetros de generación de código y QR.
type ItemConfig struct {
	CodePrefix string // por defecto "LD"
	QRBaseURL  string // el QR apunta a <QRBaseURL>/i/<id>
}

// ItemUseCase alta, consulta y edición descriptiva de piezas.
// La ubicación y el estado sólo cambian a través del registrador de movimientos.
type ItemUseCase struct {
	txRunner TxRunner
	items    repository.InventoryItemRepository
	recorder *RecordMovementUseCase
	cfg      ItemConfig
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, items repository.InventoryItemRepository, recorder *RecordMovementUseCase, cfg ItemConfig) *ItemUseCase {
	if cfg.CodePrefix == "" {
		cfg.CodePrefix = "LD"
	}
	cfg.QRBaseURL = strings.TrimRight(cfg.QRBaseURL, "/")
	return &ItemUseCase{
		txRunner: txRunner,
		items:    items,
		recorder: recorder,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create da de alta la pieza y registra su movimiento CREATE en la misma transacción.
// Si la ubicación o el estado iniciales no son válidos no se crea nada.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return nil, domain.NewValidationError("categoryId", "es obligatorio")
	}
	if strings.TrimSpace(in.LocationID) == "" {
		return nil, domain.NewValidationError("locationId", "es obligatorio")
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() || in.MainWeight.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	if err := validAttributes(in.Attributes); err != nil {
		return nil, err
	}
	statusID := in.StatusID
	if statusID == "" {
		statusID = entity.StatusAvailable
	}

	var (
		created *entity.InventoryItem
		mov     *entity.InventoryMovement
		err     error
	)
	start := time.Now()
	for attempt := 0; attempt < codeRetries; attempt++ {
		created, mov, err = uc.create(ctx, userID, statusID, in)
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	uc.recorder.AfterCommit(ctx, time.Since(start), mov)
	return toItemResponse(created), nil
}

func (uc *ItemUseCase) create(ctx context.Context, userID, statusID string, in dto.CreateItemRequest) (*entity.InventoryItem, *entity.InventoryMovement, error) {
	var (
		created *entity.InventoryItem
		mov     *entity.InventoryMovement
	)
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		if err := checkClassification(ctx, repos, in.CategoryID, in.SubcategoryID, in.SupplierID); err != nil {
			return err
		}
		now := uc.now()
		prefix := fmt.Sprintf("%s-%d-", uc.cfg.CodePrefix, now.Year())
		seq, err := repos.Items.MaxCodeSequence(ctx, prefix)
		if err != nil {
			return err
		}

		id := uuid.New().String()
		item := &entity.InventoryItem{
			ID:            id,
			ItemCode:      fmt.Sprintf("%s%04d", prefix, seq+1),
			QRCode:        uc.cfg.QRBaseURL + "/i/" + id,
			CategoryID:    in.CategoryID,
			SubcategoryID: in.SubcategoryID,
			SupplierID:    in.SupplierID,
			Name:          strings.TrimSpace(in.Name),
			Description:   in.Description,
			ShowcaseID:    in.ShowcaseID,
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
			MainWeight:    in.MainWeight,
			Attributes:    in.Attributes,
			Images:        in.Images,
			Comments:      in.Comments,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
			CreatedBy:     userID,
		}
		if len(item.Attributes) == 0 {
			item.Attributes = json.RawMessage(`{}`)
		}
		if item.Images == nil {
			item.Images = []string{}
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}

		m, err := uc.recorder.RecordInTx(ctx, repos, RecordMovementInput{
			ItemID:           id,
			MovementTypeCode: entity.MovementCodeCreate,
			ToLocationID:     in.LocationID,
			ToStatusID:       statusID,
			Reason:           "Alta de pieza",
			Notes:            in.Notes,
			PerformedBy:      userID,
		})
		if err != nil {
			return err
		}
		mov = m

		created, err = repos.Items.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return created, mov, nil
}

// GetByID obtiene una pieza por ID. Las piezas dadas de baja también se devuelven (IsActive=false).
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// GetByCode obtiene una pieza por su código (ej. lectura del QR en tienda), activa o no.
func (uc *ItemUseCase) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista piezas activas, opcionalmente filtradas por ubicación actual o proveedor.
func (uc *ItemUseCase) List(ctx context.Context, filter dto.ItemListFilter, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.items.List(ctx, repository.ItemFilter{
		LocationID: filter.LocationID,
		SupplierID: filter.SupplierID,
	}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// UpdateDetails actualiza los datos descriptivos. Ubicación y estado no se tocan.
// Si cambia la clasificación o el proveedor se validan contra los maestros en la misma transacción.
func (uc *ItemUseCase) UpdateDetails(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.NewValidationError("name", "no puede quedar vacío")
	}
	if err := validAttributes(in.Attributes); err != nil {
		return nil, err
	}
	var updated *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		item, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		reclassified := in.CategoryID != nil || in.SubcategoryID != nil || in.SupplierID != nil
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.CategoryID != nil {
			item.CategoryID = *in.CategoryID
		}
		if in.SubcategoryID != nil {
			item.SubcategoryID = *in.SubcategoryID
		}
		if in.SupplierID != nil {
			item.SupplierID = *in.SupplierID
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.ShowcaseID != nil {
			item.ShowcaseID = *in.ShowcaseID
		}
		if in.IsApproved != nil {
			item.IsApproved = *in.IsApproved
		}
		if in.PurchasePrice != nil {
			item.PurchasePrice = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			item.SalePrice = *in.SalePrice
		}
		if in.MainWeight != nil {
			item.MainWeight = *in.MainWeight
		}
		if item.PurchasePrice.IsNegative() || item.SalePrice.IsNegative() || item.MainWeight.IsNegative() {
			return domain.NewValidationError("price", "no puede ser negativo")
		}
		if len(in.Attributes) > 0 {
			item.Attributes = in.Attributes
		}
		if in.Images != nil {
			item.Images = in.Images
		}
		if in.Comments != nil {
			item.Comments = *in.Comments
		}
		if reclassified {
			if err := checkClassification(ctx, repos, item.CategoryID, item.SubcategoryID, item.SupplierID); err != nil {
				return err
			}
		}
		item.UpdatedAt = uc.now()
		if err := repos.Items.UpdateDetails(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated), nil
}

// validAttributes exige un objeto JSON; vacío se acepta y se guarda como {}.
func validAttributes(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return domain.NewValidationError("attributes", "debe ser un objeto JSON")
	}
	return nil
}

// checkClassification comprueba categoría, subcategoría y proveedor contra los maestros activos.
func checkClassification(ctx context.Context, repos TxRepositories, categoryID, subcategoryID, supplierID string) error {
	cat, err := repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil || !cat.IsActive {
		return domain.NewValidationError("categoryId", "categoría inexistente o inactiva")
	}
	if subcategoryID != "" {
		sub, err := repos.Subcategories.GetByID(ctx, subcategoryID)
		if err != nil {
			return err
		}
		if sub == nil || !sub.IsActive {
			return domain.NewValidationError("subcategoryId", "subcategoría inexistente o inactiva")
		}
		if sub.CategoryID != categoryID {
			return domain.NewValidationError("subcategoryId", "no pertenece a la categoría")
		}
	}
	if supplierID != "" {
		sup, err := repos.Suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if sup == nil || !sup.IsActive {
			return domain.NewValidationError("supplierId", "proveedor inexistente o inactivo")
		}
	}
	return nil
}

// Deactivate baja lógica: la pieza y su historial se conservan.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.items.Deactivate(ctx, id)
}

func toItemResponse(i *entity.InventoryItem) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	p := i.Placement()
	images := i.Images
	if images == nil {
		images = []string{}
	}
	return &dto.ItemResponse{
		ID:             i.ID,
		ItemCode:       i.ItemCode,
		QRCode:         i.QRCode,
		CategoryID:     i.CategoryID,
		SubcategoryID:  i.SubcategoryID,
		SupplierID:     i.SupplierID,
		Name:           i.Name,
		Description:    i.Description,
		ShowcaseID:     i.ShowcaseID,
		IsApproved:     i.IsApproved,
		PurchasePrice:  i.PurchasePrice,
		SalePrice:      i.SalePrice,
		MainWeight:     i.MainWeight,
		Attributes:     i.Attributes,
		Images:         images,
		Comments:       i.Comments,
		LocationID:     p.LocationID,
		StatusID:       p.StatusID,
		LastMovementID: p.LastMovementID,
		LastMovementAt: p.LastMovementAt,
		IsActive:       i.IsActive,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
		CreatedBy:      i.CreatedBy,
	}
}

// ToMovementResponses convierte movimientos del libro a DTO.
func ToMovementResponses(list []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:               m.ID,
			ItemID:           m.ItemID,
			MovementTypeID:   m.MovementTypeID,
			MovementTypeCode: m.MovementTypeCode,
			FromLocationID:   m.FromLocationID,
			ToLocationID:     m.ToLocationID,
			FromStatusID:     m.FromStatusID,
			ToStatusID:       m.ToStatusID,
			DocumentType:     m.DocumentType,
			DocumentID:       m.DocumentID,
			Reason:           m.Reason,
			Notes:            m.Notes,
			PerformedBy:      m.PerformedBy,
			CreatedAt:        m.CreatedAt,
		})
	}
	return out
}

// ToMovementTypeResponses convierte el catálogo de tipos a DTO.
func ToMovementTypeResponses(list []*entity.MovementType) []dto.MovementTypeResponse {
	out := make([]dto.MovementTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.MovementTypeResponse{ID: t.ID, Code: t.Code, Name: t.Name, IsActive: t.IsActive})
	}
	return out
}
