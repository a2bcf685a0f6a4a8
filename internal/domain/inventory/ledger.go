package inventory

import (
	"math"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// Movement resultado de aplicar un movimiento sobre el stock actual.
type Movement struct {
	Before   int64
	After    int64
	Quantity int64 // valor que se guarda en la entrada del libro
}

// Apply calcula el stock resultante de un movimiento (servicio de dominio, sin I/O).
//
//	in, return: After = Before + quantity (quantity > 0)
//	out:        After = Before - quantity (quantity > 0, sin quedar negativo)
//	adjust:     quantity es el valor absoluto destino (>= 0); se guarda After - Before
func Apply(txType string, before, quantity int64) (Movement, error) {
	switch txType {
	case entity.TransactionTypeIn, entity.TransactionTypeReturn:
		if quantity <= 0 {
			return Movement{}, domain.Validation("la cantidad debe ser mayor que cero")
		}
		if quantity > math.MaxInt64-before {
			return Movement{}, domain.Validation("la cantidad excede el stock máximo representable")
		}
		return Movement{Before: before, After: before + quantity, Quantity: quantity}, nil
	case entity.TransactionTypeOut:
		if quantity <= 0 {
			return Movement{}, domain.Validation("la cantidad debe ser mayor que cero")
		}
		if quantity > before {
			return Movement{}, domain.InvalidState("stock insuficiente: disponible %d, solicitado %d", before, quantity)
		}
		return Movement{Before: before, After: before - quantity, Quantity: quantity}, nil
	case entity.TransactionTypeAdjust:
		if quantity < 0 {
			return Movement{}, domain.Validation("el stock destino no puede ser negativo")
		}
		return Movement{Before: before, After: quantity, Quantity: quantity - before}, nil
	default:
		return Movement{}, domain.Validation("tipo de movimiento inválido: %q", txType)
	}
}

// ValidateQuantity revisa tipo y cantidad sin conocer el stock actual.
func ValidateQuantity(txType string, quantity int64) error {
	switch txType {
	case entity.TransactionTypeIn, entity.TransactionTypeReturn, entity.TransactionTypeOut:
		if quantity <= 0 {
			return domain.Validation("la cantidad debe ser mayor que cero")
		}
		return nil
	case entity.TransactionTypeAdjust:
		if quantity < 0 {
			return domain.Validation("el stock destino no puede ser negativo")
		}
		return nil
	default:
		return domain.Validation("tipo de movimiento inválido: %q", txType)
	}
}

// Consistent verifica la relación before/after/quantity de una entrada ya registrada.
func Consistent(t *entity.Transaction) bool {
	switch t.Type {
	case entity.TransactionTypeIn, entity.TransactionTypeReturn:
		return t.AfterQuantity == t.BeforeQuantity+t.Quantity
	case entity.TransactionTypeOut:
		return t.AfterQuantity == t.BeforeQuantity-t.Quantity
	case entity.TransactionTypeAdjust:
		return t.Quantity == t.AfterQuantity-t.BeforeQuantity
	}
	return false
}
