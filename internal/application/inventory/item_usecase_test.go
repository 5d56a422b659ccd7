package inventory_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain"
	"github.com/londor/les-inventario/internal/domain/entity"
)

func TestItemCreate_GeneraCodigoQRYMovimientoCreate(t *testing.T) {
	f := newFixture(t)

	first := f.newItem(t, "Anillo oro 18k")
	second := f.newItem(t, "Anillo plata")

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("LD-%d-0001", year), first.ItemCode)
	assert.Equal(t, fmt.Sprintf("LD-%d-0002", year), second.ItemCode)
	assert.Equal(t, "https://les.test/i/"+first.ID, first.QRCode)
	assert.Equal(t, locStore, first.LocationID)
	assert.Equal(t, entity.StatusAvailable, first.StatusID, "estado por defecto Disponible")
	assert.True(t, first.IsActive)
	assert.JSONEq(t, `{}`, string(first.Attributes))

	list := f.movements(t, first.ID)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MovementCodeCreate, list[0].MovementTypeCode)
	assert.Empty(t, list[0].FromLocationID)
	assert.Equal(t, locStore, list[0].ToLocationID)
	assert.Equal(t, list[0].ID, first.LastMovementID)
	f.requireConsistent(t, first.ID)
}

func TestItemCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	base := dto.CreateItemRequest{CategoryID: catRings, Name: "Pieza", LocationID: locStore}

	cases := []struct {
		name   string
		field  string
		mutate func(r *dto.CreateItemRequest)
	}{
		{"nombre vacío", "name", func(r *dto.CreateItemRequest) { r.Name = " " }},
		{"sin categoría", "categoryId", func(r *dto.CreateItemRequest) { r.CategoryID = "" }},
		{"sin ubicación", "locationId", func(r *dto.CreateItemRequest) { r.LocationID = "" }},
		{"precio negativo", "price", func(r *dto.CreateItemRequest) { r.SalePrice = decimal.NewFromInt(-1) }},
		{"atributos mal formados", "attributes", func(r *dto.CreateItemRequest) { r.Attributes = json.RawMessage(`{no`) }},
		{"atributos array", "attributes", func(r *dto.CreateItemRequest) { r.Attributes = json.RawMessage(`[1,2]`) }},
		{"atributos texto", "attributes", func(r *dto.CreateItemRequest) { r.Attributes = json.RawMessage(`"texto"`) }},
		{"atributos número", "attributes", func(r *dto.CreateItemRequest) { r.Attributes = json.RawMessage(`42`) }},
		{"atributos null", "attributes", func(r *dto.CreateItemRequest) { r.Attributes = json.RawMessage(`null`) }},
		{"categoría desconocida", "categoryId", func(r *dto.CreateItemRequest) { r.CategoryID = "cat_nope" }},
		{"categoría inactiva", "categoryId", func(r *dto.CreateItemRequest) { r.CategoryID = catRetired }},
		{"subcategoría desconocida", "subcategoryId", func(r *dto.CreateItemRequest) { r.SubcategoryID = "sub_nope" }},
		{"subcategoría de otra categoría", "subcategoryId", func(r *dto.CreateItemRequest) { r.SubcategoryID = subCuban }},
		{"proveedor desconocido", "supplierId", func(r *dto.CreateItemRequest) { r.SupplierID = "sup_nope" }},
		{"proveedor inactivo", "supplierId", func(r *dto.CreateItemRequest) { r.SupplierID = supClosed }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := f.items.Create(context.Background(), testUser, req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	list, err := f.items.List(context.Background(), dto.ItemListFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ninguna alta rechazada deja pieza")
}

func TestItemCreate_ConClasificacionYProveedor(t *testing.T) {
	f := newFixture(t)

	item, err := f.items.Create(context.Background(), testUser, dto.CreateItemRequest{
		CategoryID:    catRings,
		SubcategoryID: subSolitaire,
		SupplierID:    supOrfebre,
		Name:          "Solitario platino",
		LocationID:    locStore,
		Attributes:    json.RawMessage(`{"piedra":"diamante","quilates":0.5}`),
	})
	require.NoError(t, err)
	assert.Equal(t, subSolitaire, item.SubcategoryID)
	assert.Equal(t, supOrfebre, item.SupplierID)
	assert.Equal(t, supOrfebre, f.item(t, item.ID).SupplierID)
}

func TestItemCreate_UbicacionInvalidaNoCreaLaPieza(t *testing.T) {
	f := newFixture(t)

	_, err := f.items.Create(context.Background(), testUser, dto.CreateItemRequest{
		CategoryID: catRings, Name: "Pieza huérfana", LocationID: "loc_nowhere",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.items.List(context.Background(), dto.ItemListFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "la pieza no debe existir sin su movimiento CREATE")
}

func TestItemGetByIDYCodigo(t *testing.T) {
	f := newFixture(t)
	created := f.newItem(t, "Medalla")

	byID, err := f.items.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ItemCode, byID.ItemCode)

	byCode, err := f.items.GetByCode(context.Background(), created.ItemCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	_, err = f.items.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.items.GetByCode(context.Background(), "LD-0000-0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemGetByIDYCodigo_PiezaDadaDeBajaSeSigueResolviendo(t *testing.T) {
	f := newFixture(t)
	created := f.newItem(t, "Broche retirado")
	require.NoError(t, f.items.Deactivate(context.Background(), created.ID))

	byID, err := f.items.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, byID.IsActive)
	assert.Equal(t, locStore, byID.LocationID)

	byCode, err := f.items.GetByCode(context.Background(), created.ItemCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
	assert.False(t, byCode.IsActive)
}

func TestItemUpdateDetails_NoTocaUbicacionNiEstado(t *testing.T) {
	f := newFixture(t)
	created := f.newItem(t, "Argolla")

	name := "Argolla matrimonio"
	price := decimal.NewFromInt(990000)
	approved := true
	out, err := f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{
		Name:       &name,
		SalePrice:  &price,
		IsApproved: &approved,
		Attributes: json.RawMessage(`{"kilataje":"18k"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.True(t, out.SalePrice.Equal(price))

	stored := f.item(t, created.ID)
	assert.Equal(t, name, stored.Name)
	assert.True(t, stored.IsApproved)
	assert.Equal(t, created.ItemCode, stored.ItemCode)
	assert.Equal(t, locStore, stored.LocationID())
	assert.Equal(t, created.LastMovementID, stored.Placement().LastMovementID)
	assert.Len(t, f.movements(t, created.ID), 1, "editar datos no genera movimientos")

	empty := ""
	_, err = f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.items.UpdateDetails(context.Background(), "nope", dto.UpdateItemRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUpdateDetails_AtributosDebenSerObjeto(t *testing.T) {
	f := newFixture(t)
	created := f.newItem(t, "Dije")

	for _, raw := range []string{`[1,2]`, `"texto"`, `42`, `{no`} {
		_, err := f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{
			Attributes: json.RawMessage(raw),
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Equal(t, "attributes", verr.Field)
	}
	assert.JSONEq(t, `{}`, string(f.item(t, created.ID).Attributes), "los atributos no cambian")
}

func TestItemUpdateDetails_ReclasificacionValidaMaestros(t *testing.T) {
	f := newFixture(t)
	created := f.newItem(t, "Cadena")

	chains, cuban, retired, closed, solitaire := catChains, subCuban, catRetired, supClosed, subSolitaire
	_, err := f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{CategoryID: &retired})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "categoryId", verr.Field)

	_, err = f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{CategoryID: &chains, SubcategoryID: &solitaire})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "subcategoryId", verr.Field)

	_, err = f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{SupplierID: &closed})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "supplierId", verr.Field)

	out, err := f.items.UpdateDetails(context.Background(), created.ID, dto.UpdateItemRequest{CategoryID: &chains, SubcategoryID: &cuban})
	require.NoError(t, err)
	assert.Equal(t, catChains, out.CategoryID)
	assert.Equal(t, subCuban, f.item(t, created.ID).SubcategoryID)
}

func TestItemList_FiltraPorUbicacionYExcluyeInactivas(t *testing.T) {
	f := newFixture(t)
	a := f.newItem(t, "A")
	b := f.newItem(t, "B")
	c := f.newItem(t, "C")

	_, err := f.recorder.RecordMovement(context.Background(), recordTransfer(b.ID, locWorkshop))
	require.NoError(t, err)
	require.NoError(t, f.items.Deactivate(context.Background(), c.ID))

	inStore, err := f.items.List(context.Background(), dto.ItemListFilter{LocationID: locStore}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, inStore.Items, 1)
	assert.Equal(t, a.ID, inStore.Items[0].ID)
	assert.Equal(t, 20, inStore.Page.Limit)

	all, err := f.items.List(context.Background(), dto.ItemListFilter{}, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, b.ID, all.Items[0].ID)

	// La pieza desactivada conserva su historial
	assert.Len(t, f.movements(t, c.ID), 1)
	assert.ErrorIs(t, f.items.Deactivate(context.Background(), "nope"), domain.ErrNotFound)
}

func TestItemList_FiltraPorProveedor(t *testing.T) {
	f := newFixture(t)
	f.newItem(t, "Sin proveedor")
	supplied, err := f.items.Create(context.Background(), testUser, dto.CreateItemRequest{
		CategoryID: catRings, SupplierID: supOrfebre, Name: "De orfebre", LocationID: locWorkshop,
	})
	require.NoError(t, err)

	list, err := f.items.List(context.Background(), dto.ItemListFilter{SupplierID: supOrfebre}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, supplied.ID, list.Items[0].ID)

	list, err = f.items.List(context.Background(), dto.ItemListFilter{SupplierID: supOrfebre, LocationID: locStore}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "los filtros se combinan")
}

func TestItemCreate_PrefijoConfigurable(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewItemUseCase(f.store, f.store.Items(), f.recorder, inventory.ItemConfig{CodePrefix: "JY"})

	item, err := uc.Create(context.Background(), testUser, dto.CreateItemRequest{
		CategoryID: catRings, Name: "Pieza", LocationID: locWorkshop, StatusID: statusRepair,
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("JY-%d-0001", time.Now().UTC().Year()), item.ItemCode)
	assert.Equal(t, "/i/"+item.ID, item.QRCode)
	assert.Equal(t, statusRepair, item.StatusID)
}
