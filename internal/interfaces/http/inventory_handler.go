package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/londor/les-inventario/internal/application/dto"
	"github.com/londor/les-inventario/internal/application/inventory"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// InventoryHandler maneja movimientos, historial y trazabilidad de piezas (protegido).
type InventoryHandler struct {
	recorder *inventory.RecordMovementUseCase
	registry *inventory.MovementTypeRegistryUseCase
	history  *inventory.HistoryUseCase
	xlsx     inventory.ReportRenderer
	pdf      inventory.ReportRenderer
}

// NewInventoryHandler construye el handler. xlsx y pdf pueden ser nil (exportación deshabilitada).
func NewInventoryHandler(
	recorder *inventory.RecordMovementUseCase,
	registry *inventory.MovementTypeRegistryUseCase,
	history *inventory.HistoryUseCase,
	xlsx, pdf inventory.ReportRenderer,
) *InventoryHandler {
	return &InventoryHandler{recorder: recorder, registry: registry, history: history, xlsx: xlsx, pdf: pdf}
}

// ListMovementTypes godoc
// @Summary      Catálogo de tipos de movimiento activos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.MovementTypeResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/movement-types [get]
func (h *InventoryHandler) ListMovementTypes(c *fiber.Ctx) error {
	list, err := h.registry.GetMovementTypes(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMovementTypeResponses(list))
}

// RecordMovement godoc
// @Summary      Registrar movimiento de una pieza
// @Description  Cambia ubicación y/o estado de la pieza y deja el registro en el libro.
//
//	Campos destino vacíos significan "sin cambio". El usuario se toma del token.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "item_id, movement_type_code, destino opcional"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.recorder.RecordMovement(c.Context(), inventory.RecordMovementInput{
		ItemID:           in.ItemID,
		MovementTypeCode: in.MovementTypeCode,
		ToLocationID:     in.ToLocationID,
		ToStatusID:       in.ToStatusID,
		DocumentType:     in.DocumentType,
		DocumentID:       in.DocumentID,
		Reason:           in.Reason,
		Notes:            in.Notes,
		PerformedBy:      userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RecordMovementResponse{MovementID: id})
}

// GetHistory godoc
// @Summary      Historial de movimientos de una pieza (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	list, err := h.history.GetHistory(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMovementResponses(list))
}

// ExportHistory godoc
// @Summary      Exportar historial de la pieza a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements/export [get]
func (h *InventoryHandler) ExportHistory(c *fiber.Ctx) error {
	return h.render(c, h.xlsx, mimeXLSX, "xlsx")
}

// TraceabilityPDF godoc
// @Summary      Ficha de trazabilidad de la pieza en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/traceability.pdf [get]
func (h *InventoryHandler) TraceabilityPDF(c *fiber.Ctx) error {
	return h.render(c, h.pdf, mimePDF, "pdf")
}

func (h *InventoryHandler) render(c *fiber.Ctx, renderer inventory.ReportRenderer, mime, ext string) error {
	if renderer == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_AVAILABLE", Message: "exportación no disponible"})
	}
	report, err := h.history.BuildTraceabilityReport(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	doc, err := renderer.Render(c.Context(), report)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, report.Item.ItemCode, ext))
	return c.Send(doc)
}
