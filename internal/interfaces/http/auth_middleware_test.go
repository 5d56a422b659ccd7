package http_test

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/domain/entity"
	apphttp "github.com/londor/les-inventario/internal/interfaces/http"
	pkgjwt "github.com/londor/les-inventario/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testIssuer     = "les-inventario-test"
	testExpMin     = 60
	testCategoryID = "cat_anillos"
	testCustomerID = "cli-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_TokenRechazado(t *testing.T) {
	api := newAPI(t)

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, apphttp.RoleAdmin, testIssuer, -5)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secreto", testUserID, apphttp.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"esquema Basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, data := api.doWithAuth(http.MethodGet, "/api/movement-types", tc.header, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, data).Code)
		})
	}
}

func TestAuth_TokenSinRolEnRutaRestringida(t *testing.T) {
	api := newAPI(t)

	// Las rutas sin restricción de rol sólo exigen usuario
	resp, _ := api.do(http.MethodGet, "/api/locations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = api.doAs(http.MethodGet, "/api/locations", testUserID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := api.doAs(http.MethodPost, "/api/inventory/items", testUserID, "", dto.CreateItemRequest{
		CategoryID: testCategoryID, Name: "x", LocationID: "loc_store",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, data).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuario del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_PerformedBySaleDelToken(t *testing.T) {
	api := newAPI(t)
	const operator = "bodega-ana"

	resp, data := api.doAs(http.MethodPost, "/api/inventory/items", operator, apphttp.RoleBodeguero, dto.CreateItemRequest{
		CategoryID: testCategoryID, Name: "Pendientes perla", LocationID: "loc_store",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(data, &item))
	assert.Equal(t, operator, item.CreatedBy)

	// Un performed_by en el cuerpo no suplanta al usuario autenticado
	resp, data = api.doAs(http.MethodPost, "/api/inventory/movements", "vendedor-luis", apphttp.RoleVendedor, map[string]any{
		"item_id":            item.ID,
		"movement_type_code": entity.MovementCodeTransfer,
		"to_location_id":     "loc_workshop",
		"performed_by":       "otra-persona",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = api.do(http.MethodGet, "/api/inventory/items/"+item.ID+"/movements", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []dto.MovementResponse
	require.NoError(t, json.Unmarshal(data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "vendedor-luis", history[0].PerformedBy)
	assert.Equal(t, operator, history[1].PerformedBy, "el CREATE lo firma quien dio de alta la pieza")
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por rol sobre el router real
// ──────────────────────────────────────────────────────────────────────────────

func TestRoles_MatrizDeRutasRestringidas(t *testing.T) {
	type route struct {
		name    string
		method  string
		path    string // :item se sustituye por el ID de una pieza recién creada
		body    any
		allowed []string
	}
	all := []string{apphttp.RoleAdmin, apphttp.RoleBodeguero, apphttp.RoleVendedor}
	routes := []route{
		{"alta de pieza", http.MethodPost, "/api/inventory/items",
			dto.CreateItemRequest{CategoryID: testCategoryID, Name: "x", LocationID: "loc_store"},
			[]string{apphttp.RoleAdmin, apphttp.RoleBodeguero}},
		{"edición de pieza", http.MethodPut, "/api/inventory/items/:item",
			map[string]any{"comments": "revisada"}, []string{apphttp.RoleAdmin, apphttp.RoleBodeguero}},
		{"baja de pieza", http.MethodDelete, "/api/inventory/items/:item", nil, []string{apphttp.RoleAdmin}},
		{"movimiento", http.MethodPost, "/api/inventory/movements",
			map[string]any{"item_id": ":item", "movement_type_code": entity.MovementCodeTransfer, "to_location_id": "loc_workshop"}, all},
		{"alta de ubicación", http.MethodPost, "/api/locations",
			dto.CreateLocationRequest{Name: "Feria", Type: entity.LocationTypeOther}, []string{apphttp.RoleAdmin}},
		{"alta de estado", http.MethodPost, "/api/statuses", dto.CreateStatusRequest{Name: "Pulido"}, []string{apphttp.RoleAdmin}},
		{"alta de categoría", http.MethodPost, "/api/categories", dto.CreateCategoryRequest{Name: "Diademas"}, []string{apphttp.RoleAdmin}},
		{"alta de subcategoría", http.MethodPost, "/api/subcategories",
			dto.CreateSubcategoryRequest{CategoryID: testCategoryID, Name: "Sello"}, []string{apphttp.RoleAdmin}},
		{"alta de proveedor", http.MethodPost, "/api/suppliers", dto.CreateSupplierRequest{Name: "Taller Norte"}, []string{apphttp.RoleAdmin}},
		{"alta de cliente", http.MethodPost, "/api/customers",
			dto.CreateCustomerRequest{FirstName: "Ana", Phone: "600999888"}, all},
		{"baja de cliente", http.MethodDelete, "/api/customers/" + testCustomerID, nil, []string{apphttp.RoleAdmin}},
		{"expirar reservas", http.MethodPost, "/api/reservations/expire", nil, []string{apphttp.RoleAdmin}},
	}

	for _, r := range routes {
		for _, role := range all {
			t.Run(r.name+"/"+role, func(t *testing.T) {
				api := newAPI(t)
				item := api.createItem()
				path, body := strings.Replace(r.path, ":item", item.ID, 1), r.body
				if m, ok := body.(map[string]any); ok && m["item_id"] == ":item" {
					m = maps.Clone(m)
					m["item_id"] = item.ID
					body = m
				}

				resp, data := api.do(r.method, path, role, body)
				if slices.Contains(r.allowed, role) {
					assert.Less(t, resp.StatusCode, 300, string(data))
				} else {
					assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(data))
					assert.Equal(t, "FORBIDDEN", errorCode(t, data).Code)
				}
			})
		}
	}
}
