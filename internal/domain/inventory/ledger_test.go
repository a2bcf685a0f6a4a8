package inventory

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity(entity.TransactionTypeIn, math.MaxInt64))
	assert.NoError(t, ValidateQuantity(entity.TransactionTypeOut, 3))
	assert.NoError(t, ValidateQuantity(entity.TransactionTypeAdjust, 0))
	assert.ErrorIs(t, ValidateQuantity(entity.TransactionTypeReturn, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateQuantity(entity.TransactionTypeAdjust, -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateQuantity("transfer", 1), domain.ErrInvalidInput)
}

func TestApply(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		before  int64
		qty     int64
		want    Movement
		wantErr error
	}{
		{"entrada", entity.TransactionTypeIn, 10, 5, Movement{10, 15, 5}, nil},
		{"devolución", entity.TransactionTypeReturn, 0, 2, Movement{0, 2, 2}, nil},
		{"salida", entity.TransactionTypeOut, 10, 4, Movement{10, 6, 4}, nil},
		{"salida exacta", entity.TransactionTypeOut, 4, 4, Movement{4, 0, 4}, nil},
		{"salida sin stock", entity.TransactionTypeOut, 3, 4, Movement{}, domain.ErrInvalidState},
		{"ajuste a la baja", entity.TransactionTypeAdjust, 10, 7, Movement{10, 7, -3}, nil},
		{"ajuste sin cambio", entity.TransactionTypeAdjust, 7, 7, Movement{7, 7, 0}, nil},
		{"ajuste negativo", entity.TransactionTypeAdjust, 7, -1, Movement{}, domain.ErrInvalidInput},
		{"entrada cero", entity.TransactionTypeIn, 1, 0, Movement{}, domain.ErrInvalidInput},
		{"salida negativa", entity.TransactionTypeOut, 1, -1, Movement{}, domain.ErrInvalidInput},
		{"tipo desconocido", "transfer", 1, 1, Movement{}, domain.ErrInvalidInput},
		{"entrada hasta el máximo", entity.TransactionTypeIn, 5, math.MaxInt64 - 5, Movement{5, math.MaxInt64, math.MaxInt64 - 5}, nil},
		{"entrada desborda", entity.TransactionTypeIn, 5, math.MaxInt64, Movement{}, domain.ErrInvalidInput},
		{"devolución desborda", entity.TransactionTypeReturn, math.MaxInt64, 1, Movement{}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.typ, tc.before, tc.qty)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "error esperado %v, obtenido %v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			tx := &entity.Transaction{Type: tc.typ, BeforeQuantity: got.Before, AfterQuantity: got.After, Quantity: got.Quantity}
			assert.True(t, Consistent(tx))
		})
	}
}

func TestConsistent_DetectaCorrupcion(t *testing.T) {
	tx := &entity.Transaction{Type: entity.TransactionTypeOut, BeforeQuantity: 10, AfterQuantity: 8, Quantity: 3}
	assert.False(t, Consistent(tx))
	assert.False(t, Consistent(&entity.Transaction{Type: "otro"}))
}

func TestRequestNumber(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	day := time.Date(2026, 3, 7, 23, 59, 0, 0, loc)

	assert.Equal(t, "REQ202603070001", RequestNumber(day, 1))
	assert.Equal(t, "REQ202603070123", RequestNumber(day, 123))
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, loc), StartOfDay(day))
}
