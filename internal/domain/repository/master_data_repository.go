package repository

import (
	"context"

	"github.com/londor/les-inventario/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListActive(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// InsertMissing inserta las categorías cuyo ID aún no existe.
	InsertMissing(ctx context.Context, categories []*entity.Category) error
	Deactivate(ctx context.Context, id string) error
}

// SubcategoryRepository define el puerto de persistencia para subcategorías.
type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *entity.Subcategory) error
	GetByID(ctx context.Context, id string) (*entity.Subcategory, error)
	// ListActive lista las subcategorías activas; categoryID vacío = todas.
	ListActive(ctx context.Context, categoryID string) ([]*entity.Subcategory, error)
	Update(ctx context.Context, subcategory *entity.Subcategory) error
	Deactivate(ctx context.Context, id string) error
	// DeactivateByCategory desactiva todas las subcategorías de la categoría.
	DeactivateByCategory(ctx context.Context, categoryID string) error
}

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// ListActive lista clientes activos; term filtra por nombre, apellidos, DNI o teléfono.
	ListActive(ctx context.Context, term string) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Deactivate(ctx context.Context, id string) error
}

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListActive(ctx context.Context) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Deactivate(ctx context.Context, id string) error
}
