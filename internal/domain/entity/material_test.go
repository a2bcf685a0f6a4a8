package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestStockStatus(t *testing.T) {
	cases := []struct {
		name string
		qty  int64
		min  *int64
		want string
	}{
		{"sin stock", 0, nil, MaterialStatusOutOfStock},
		{"sin stock con mínimo", 0, ptr[int64](10), MaterialStatusOutOfStock},
		{"bajo mínimo", 5, ptr[int64](10), MaterialStatusLowStock},
		{"igual al mínimo", 10, ptr[int64](10), MaterialStatusLowStock},
		{"sobre mínimo", 11, ptr[int64](10), MaterialStatusAvailable},
		{"sin mínimo", 1, nil, MaterialStatusAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StockStatus(tc.qty, tc.min))
		})
	}
}

func TestMaterial_StockValue(t *testing.T) {
	m := &Material{StockQuantity: 3}
	assert.True(t, m.StockValue().IsZero())

	m.UnitPrice = ptr(decimal.RequireFromString("2.50"))
	assert.Equal(t, "7.5", m.StockValue().String())
}
