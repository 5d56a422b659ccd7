// Package export genera la exportación del historial de una pieza a Excel.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Movimientos"

var historyHeader = []interface{}{
	"Fecha",
	"Tipo",
	"Código tipo",
	"Ubicación origen",
	"Ubicación destino",
	"Estado origen",
	"Estado destino",
	"Documento",
	"N° documento",
	"Motivo",
	"Notas",
	"Usuario",
	"ID movimiento",
}

var _ inventory.ReportRenderer = (*XLSXRenderer)(nil)

// XLSXRenderer historial en una hoja, una fila por movimiento (más reciente primero).
type XLSXRenderer struct{}

// NewXLSXRenderer construye el exportador.
func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

// Render devuelve el libro .xlsx en bytes.
func (XLSXRenderer) Render(_ context.Context, report *inventory.TraceabilityReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	title := []interface{}{report.Item.ItemCode, report.Item.Name}
	if err := f.SetSheetRow(sheetName, "A1", &title); err != nil {
		return nil, fmt.Errorf("xlsx: título: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A3", &historyHeader); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}

	row := 4
	for _, m := range report.Movements {
		values := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			report.TypeName(m),
			m.MovementTypeCode,
			locationOrEmpty(report, m.FromLocationID),
			locationOrEmpty(report, m.ToLocationID),
			statusOrEmpty(report, m.FromStatusID),
			statusOrEmpty(report, m.ToStatusID),
			m.DocumentType,
			m.DocumentID,
			m.Reason,
			m.Notes,
			m.PerformedBy,
			m.ID,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", row, err)
		}
		row++
	}

	if err := f.SetColWidth(sheetName, "A", "M", 18); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columnas: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func locationOrEmpty(report *inventory.TraceabilityReport, id string) string {
	if id == "" {
		return ""
	}
	return report.LocationName(id)
}

func statusOrEmpty(report *inventory.TraceabilityReport, id string) string {
	if id == "" {
		return ""
	}
	return report.StatusName(id)
}
