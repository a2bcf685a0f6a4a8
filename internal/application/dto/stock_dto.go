package dto

import "time"

// AdjustStockRequest ajuste de un material a un valor absoluto.
type AdjustStockRequest struct {
	StockQuantity *int64 `json:"stock_quantity"`
	Notes         string `json:"notes"`
}

// BatchUpdateStockItem línea de PUT /materials/batch-update-stock.
type BatchUpdateStockItem struct {
	MaterialID    *int64 `json:"material_id"`
	StockQuantity *int64 `json:"stock_quantity"`
	Notes         string `json:"notes"`
}

// BatchUpdateStockRequest cuerpo de la actualización masiva.
type BatchUpdateStockRequest struct {
	Updates []BatchUpdateStockItem `json:"updates"`
}

// BatchItemResult resultado individual de una línea del lote.
type BatchItemResult struct {
	MaterialID *int64 `json:"material_id"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

// BatchUpdateStockResponse resultado agregado del lote (éxito parcial posible).
type BatchUpdateStockResponse struct {
	UpdatedCount int               `json:"updated_count"`
	FailedCount  int               `json:"failed_count"`
	Results      []BatchItemResult `json:"results"`
}

// RecordTransactionRequest registro directo de un movimiento en el libro.
type RecordTransactionRequest struct {
	MaterialID      int64  `json:"material_id"`
	TransactionType string `json:"transaction_type"`
	Quantity        int64  `json:"quantity"`
	RequestID       *int64 `json:"request_id"`
	Notes           string `json:"notes"`
}

// TransactionListQuery filtros de GET /material-transactions. Fechas en formato YYYY-MM-DD.
type TransactionListQuery struct {
	PageRequest
	MaterialID      *int64
	TransactionType string
	StartDate       string
	EndDate         string
}

// TransactionResponse salida de una entrada del libro.
type TransactionResponse struct {
	ID              int64     `json:"id"`
	MaterialID      int64     `json:"material_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        int64     `json:"quantity"`
	BeforeQuantity  int64     `json:"before_quantity"`
	AfterQuantity   int64     `json:"after_quantity"`
	UserID          *int64    `json:"user_id"`
	RequestID       *int64    `json:"request_id"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
