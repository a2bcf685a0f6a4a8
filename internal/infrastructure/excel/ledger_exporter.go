// Package excel exporta el libro de inventario a hojas de cálculo xlsx.
package excel

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
)

var _ ports.LedgerExporter = (*LedgerExporter)(nil)

const sheetName = "Movimientos"

var header = []interface{}{
	"ID", "Material", "Tipo", "Cantidad", "Stock anterior", "Stock posterior", "Usuario", "Solicitud", "Notas", "Fecha",
}

// LedgerExporter escribe entradas del libro como xlsx con una fila por movimiento.
type LedgerExporter struct {
	loc *time.Location
}

// NewLedgerExporter construye el exportador; las fechas se escriben en loc.
func NewLedgerExporter(loc *time.Location) *LedgerExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerExporter{loc: loc}
}

func (e *LedgerExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *LedgerExporter) FileExtension() string { return "xlsx" }

// WriteTransactions genera el libro y lo escribe en w.
func (e *LedgerExporter) WriteTransactions(w io.Writer, rows []dto.TransactionResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return fmt.Errorf("renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("encabezado: %w", err)
	}

	for i, t := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.ID,
			t.MaterialID,
			t.TransactionType,
			t.Quantity,
			t.BeforeQuantity,
			t.AfterQuantity,
			optional(t.UserID),
			optional(t.RequestID),
			t.Notes,
			t.CreatedAt.In(e.loc).Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("fila %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "I", "I", 40)
	_ = f.SetColWidth(sheetName, "J", "J", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("escribir xlsx: %w", err)
	}
	return nil
}

func optional(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
