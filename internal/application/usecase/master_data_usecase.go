package usecase

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
)

// MasterDataUseCase maestros de clasificación (categorías y subcategorías), clientes y proveedores.
// Las piezas y las reservas los referencian; la baja siempre es lógica.
type MasterDataUseCase struct {
	txRunner      inventory.TxRunner
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	customers     repository.CustomerRepository
	suppliers     repository.SupplierRepository
	now           func() time.Time
}

// NewMasterDataUseCase construye el caso de uso. repos son los repositorios de nivel pool.
func NewMasterDataUseCase(txRunner inventory.TxRunner, repos inventory.TxRepositories) *MasterDataUseCase {
	return &MasterDataUseCase{
		txRunner:      txRunner,
		categories:    repos.Categories,
		subcategories: repos.Subcategories,
		customers:     repos.Customers,
		suppliers:     repos.Suppliers,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// EnsureDefaultCategories siembra las categorías base que falten.
func (uc *MasterDataUseCase) EnsureDefaultCategories(ctx context.Context) error {
	return uc.categories.InsertMissing(ctx, entity.DefaultCategories(uc.now()))
}

// ─── Categorías ──────────────────────────────────────────────────────────────

// CreateCategory crea una categoría.
func (uc *MasterDataUseCase) CreateCategory(ctx context.Context, userID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	cat := &entity.Category{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   uc.now(),
		CreatedBy:   userID,
	}
	if err := uc.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// GetCategory obtiene una categoría (incluidas las inactivas).
func (uc *MasterDataUseCase) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(cat), nil
}

// ListCategories lista las categorías activas.
func (uc *MasterDataUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// UpdateCategory actualiza nombre o descripción.
func (uc *MasterDataUseCase) UpdateCategory(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		cat.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	if err := uc.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// DeactivateCategory desactiva la categoría y sus subcategorías en una transacción.
func (uc *MasterDataUseCase) DeactivateCategory(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos inventory.TxRepositories) error {
		if err := repos.Categories.Deactivate(ctx, id); err != nil {
			return err
		}
		return repos.Subcategories.DeactivateByCategory(ctx, id)
	})
}

// ─── Subcategorías ───────────────────────────────────────────────────────────

// CreateSubcategory crea una subcategoría dentro de una categoría activa.
func (uc *MasterDataUseCase) CreateSubcategory(ctx context.Context, userID string, in dto.CreateSubcategoryRequest) (*dto.SubcategoryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return nil, domain.NewValidationError("categoryId", "es obligatorio")
	}
	cat, err := uc.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil || !cat.IsActive {
		return nil, domain.NewValidationError("categoryId", "categoría inexistente o inactiva")
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	sub := &entity.Subcategory{
		ID:          id,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   uc.now(),
		CreatedBy:   userID,
	}
	if err := uc.subcategories.Create(ctx, sub); err != nil {
		return nil, err
	}
	return toSubcategoryResponse(sub), nil
}

// GetSubcategory obtiene una subcategoría.
func (uc *MasterDataUseCase) GetSubcategory(ctx context.Context, id string) (*dto.SubcategoryResponse, error) {
	sub, err := uc.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	return toSubcategoryResponse(sub), nil
}

// ListSubcategories lista las subcategorías activas; categoryID vacío = todas.
func (uc *MasterDataUseCase) ListSubcategories(ctx context.Context, categoryID string) ([]dto.SubcategoryResponse, error) {
	list, err := uc.subcategories.ListActive(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubcategoryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSubcategoryResponse(s))
	}
	return out, nil
}

// UpdateSubcategory actualiza nombre o descripción.
func (uc *MasterDataUseCase) UpdateSubcategory(ctx context.Context, id string, in dto.UpdateSubcategoryRequest) (*dto.SubcategoryResponse, error) {
	sub, err := uc.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		sub.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		sub.Description = *in.Description
	}
	if err := uc.subcategories.Update(ctx, sub); err != nil {
		return nil, err
	}
	return toSubcategoryResponse(sub), nil
}

// DeactivateSubcategory baja lógica de la subcategoría.
func (uc *MasterDataUseCase) DeactivateSubcategory(ctx context.Context, id string) error {
	return uc.subcategories.Deactivate(ctx, id)
}

// ─── Clientes ────────────────────────────────────────────────────────────────

func validateCustomer(c *entity.Customer) error {
	if c.FirstName == "" {
		return domain.NewValidationError("firstName", "es obligatorio")
	}
	if c.Phone == "" {
		return domain.NewValidationError("phone", "es obligatorio")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return domain.NewValidationError("email", "formato inválido")
	}
	return nil
}

// CreateCustomer da de alta un cliente.
func (uc *MasterDataUseCase) CreateCustomer(ctx context.Context, userID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := uc.now()
	cu := &entity.Customer{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		DNI:       strings.TrimSpace(in.DNI),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Address:   in.Address,
		Tags:      in.Tags,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
	}
	if err := validateCustomer(cu); err != nil {
		return nil, err
	}
	if err := uc.customers.Create(ctx, cu); err != nil {
		return nil, err
	}
	return toCustomerResponse(cu), nil
}

// GetCustomer obtiene un cliente.
func (uc *MasterDataUseCase) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	cu, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cu == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(cu), nil
}

// ListCustomers lista clientes activos; term busca por nombre, apellidos, DNI o teléfono.
func (uc *MasterDataUseCase) ListCustomers(ctx context.Context, term string) ([]dto.CustomerResponse, error) {
	list, err := uc.customers.ListActive(ctx, term)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// UpdateCustomer actualiza los datos de contacto.
func (uc *MasterDataUseCase) UpdateCustomer(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	cu, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cu == nil {
		return nil, domain.ErrNotFound
	}
	if in.FirstName != nil {
		cu.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		cu.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.DNI != nil {
		cu.DNI = strings.TrimSpace(*in.DNI)
	}
	if in.Phone != nil {
		cu.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		cu.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		cu.Address = *in.Address
	}
	if in.Tags != nil {
		cu.Tags = in.Tags
	}
	if err := validateCustomer(cu); err != nil {
		return nil, err
	}
	cu.UpdatedAt = uc.now()
	if err := uc.customers.Update(ctx, cu); err != nil {
		return nil, err
	}
	return toCustomerResponse(cu), nil
}

// DeactivateCustomer baja lógica; sus reservas históricas se conservan.
func (uc *MasterDataUseCase) DeactivateCustomer(ctx context.Context, id string) error {
	return uc.customers.Deactivate(ctx, id)
}

// ─── Proveedores ─────────────────────────────────────────────────────────────

// CreateSupplier crea un proveedor.
func (uc *MasterDataUseCase) CreateSupplier(ctx context.Context, userID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	s := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		TaxID:         strings.TrimSpace(in.TaxID),
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		Website:       in.Website,
		Notes:         in.Notes,
		IsActive:      true,
		CreatedAt:     uc.now(),
		CreatedBy:     userID,
	}
	if err := uc.suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetSupplier obtiene un proveedor.
func (uc *MasterDataUseCase) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista los proveedores activos.
func (uc *MasterDataUseCase) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.suppliers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// UpdateSupplier actualiza los datos del proveedor.
func (uc *MasterDataUseCase) UpdateSupplier(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		s.Name = strings.TrimSpace(*in.Name)
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.TaxID, in.TaxID)
	set(&s.ContactPerson, in.ContactPerson)
	set(&s.Phone, in.Phone)
	set(&s.Email, in.Email)
	set(&s.Address, in.Address)
	set(&s.Website, in.Website)
	set(&s.Notes, in.Notes)
	if err := uc.suppliers.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// DeactivateSupplier baja lógica; las piezas conservan la referencia.
func (uc *MasterDataUseCase) DeactivateSupplier(ctx context.Context, id string) error {
	return uc.suppliers.Deactivate(ctx, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		CreatedBy:   c.CreatedBy,
	}
}

func toSubcategoryResponse(s *entity.Subcategory) *dto.SubcategoryResponse {
	return &dto.SubcategoryResponse{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
	}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		DNI:       c.DNI,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Tags:      tags,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		CreatedBy: c.CreatedBy,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		TaxID:         s.TaxID,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Website:       s.Website,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
	}
}
