package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/application/reservation"
	"github.com/londor/les-inventario/internal/application/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Recorder     *inventory.RecordMovementUseCase
	Registry     *inventory.MovementTypeRegistryUseCase
	History      *inventory.HistoryUseCase
	Items        *inventory.ItemUseCase
	Catalog      *usecase.CatalogUseCase
	MasterData   *usecase.MasterDataUseCase
	Reservations *reservation.UseCase
	XLSX         inventory.ReportRenderer
	PDF          inventory.ReportRenderer
	Gatherer     prometheus.Gatherer // nil = sin /metrics
	JWTSecret    string
	ServiceName  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	inventoryHandler := NewInventoryHandler(deps.Recorder, deps.Registry, deps.History, deps.XLSX, deps.PDF)
	protected.Get("/movement-types", inventoryHandler.ListMovementTypes)

	// Piezas y movimientos
	inv := protected.Group("/inventory")
	inv.Post("/movements", inventoryHandler.RecordMovement)

	itemHandler := NewItemHandler(deps.Items)
	items := inv.Group("/items")
	items.Post("/", RequireRole(RoleAdmin, RoleBodeguero), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/code/:code", itemHandler.GetByCode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", RequireRole(RoleAdmin, RoleBodeguero), itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Deactivate)
	items.Get("/:id/movements", inventoryHandler.GetHistory)
	items.Get("/:id/movements/export", inventoryHandler.ExportHistory)
	items.Get("/:id/traceability.pdf", inventoryHandler.TraceabilityPDF)

	// Catálogos (la escritura es sólo para admin)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	locations := protected.Group("/locations")
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:id", catalogHandler.GetLocation)
	locations.Post("/", adminOnly, catalogHandler.CreateLocation)
	locations.Put("/:id", adminOnly, catalogHandler.UpdateLocation)
	locations.Delete("/:id", adminOnly, catalogHandler.DeactivateLocation)

	statuses := protected.Group("/statuses")
	statuses.Get("/", catalogHandler.ListStatuses)
	statuses.Get("/:id", catalogHandler.GetStatus)
	statuses.Post("/", adminOnly, catalogHandler.CreateStatus)
	statuses.Put("/:id", adminOnly, catalogHandler.UpdateStatus)
	statuses.Delete("/:id", adminOnly, catalogHandler.DeactivateStatus)

	// Maestros: clasificación y proveedores sólo los escribe admin; los clientes los da de alta cualquier rol
	masterHandler := NewMasterDataHandler(deps.MasterData)
	categories := protected.Group("/categories")
	categories.Get("/", masterHandler.ListCategories)
	categories.Get("/:id", masterHandler.GetCategory)
	categories.Get("/:id/subcategories", masterHandler.ListCategorySubcategories)
	categories.Post("/", adminOnly, masterHandler.CreateCategory)
	categories.Put("/:id", adminOnly, masterHandler.UpdateCategory)
	categories.Delete("/:id", adminOnly, masterHandler.DeactivateCategory)

	subcategories := protected.Group("/subcategories")
	subcategories.Get("/", masterHandler.ListSubcategories)
	subcategories.Get("/:id", masterHandler.GetSubcategory)
	subcategories.Post("/", adminOnly, masterHandler.CreateSubcategory)
	subcategories.Put("/:id", adminOnly, masterHandler.UpdateSubcategory)
	subcategories.Delete("/:id", adminOnly, masterHandler.DeactivateSubcategory)

	customers := protected.Group("/customers")
	customers.Get("/", masterHandler.ListCustomers)
	customers.Get("/:id", masterHandler.GetCustomer)
	customers.Post("/", masterHandler.CreateCustomer)
	customers.Put("/:id", masterHandler.UpdateCustomer)
	customers.Delete("/:id", adminOnly, masterHandler.DeactivateCustomer)

	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", masterHandler.ListSuppliers)
	suppliers.Get("/:id", masterHandler.GetSupplier)
	suppliers.Post("/", adminOnly, masterHandler.CreateSupplier)
	suppliers.Put("/:id", adminOnly, masterHandler.UpdateSupplier)
	suppliers.Delete("/:id", adminOnly, masterHandler.DeactivateSupplier)

	// Reservas
	reservationHandler := NewReservationHandler(deps.Reservations)
	reservations := protected.Group("/reservations")
	reservations.Post("/", reservationHandler.Create)
	reservations.Get("/", reservationHandler.ListActive)
	reservations.Post("/expire", adminOnly, reservationHandler.ExpireOverdue)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Post("/:id/resolve", reservationHandler.Resolve)
}
