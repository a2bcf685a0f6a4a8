package ports

import (
	"io"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
)

// LedgerExporter renderiza entradas del libro de inventario en un formato descargable.
type LedgerExporter interface {
	ContentType() string
	FileExtension() string
	WriteTransactions(w io.Writer, rows []dto.TransactionResponse) error
}
