package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	TransactionTypeIn     = "in"     // entrada
	TransactionTypeOut    = "out"    // salida
	TransactionTypeReturn = "return" // devolución
	TransactionTypeAdjust = "adjust" // ajuste a valor absoluto
)

// Transaction es una entrada inmutable del libro de inventario.
// Para in/return/out Quantity es la magnitud del movimiento; para adjust es after - before.
type Transaction struct {
	ID             int64
	MaterialID     int64
	Type           string
	Quantity       int64
	BeforeQuantity int64
	AfterQuantity  int64
	UserID         *int64
	RequestID      *int64
	Notes          string
	CreatedAt      time.Time
}

// IsValidTransactionType indica si t es un tipo de movimiento conocido.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeReturn, TransactionTypeAdjust:
		return true
	}
	return false
}
