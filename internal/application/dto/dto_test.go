package dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := PageRequest{Page: 2, Limit: 10}
	got := NewPagination(p, 25)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}, got)

	empty := NewPagination(PageRequest{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestPageRequest_Normalize(t *testing.T) {
	p := PageRequest{Page: -1, Limit: 500}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = PageRequest{Page: 3}
	p.Normalize()
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, 20, p.Offset())
}

func TestPageRequest_PaginaEnormeNoDesborda(t *testing.T) {
	for _, limit := range []int{1, 7, MaxPageLimit} {
		p := PageRequest{Page: math.MaxInt, Limit: limit}
		p.Normalize()
		assert.GreaterOrEqual(t, p.Offset(), 0, "limit=%d", limit)
	}

	p := PageRequest{Page: math.MaxInt64 / 50, Limit: 100}
	p.Normalize()
	assert.Equal(t, math.MaxInt/100, p.Page)
	assert.Positive(t, p.Offset())
}

func TestOptionalDecimal_UnitPrice(t *testing.T) {
	var in UpdateMaterialRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &in))
	assert.False(t, in.UnitPrice.Set)

	in = UpdateMaterialRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"unit_price":null}`), &in))
	assert.True(t, in.UnitPrice.Set)
	assert.Nil(t, in.UnitPrice.Value)

	in = UpdateMaterialRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"unit_price":"12.50"}`), &in))
	require.NotNil(t, in.UnitPrice.Value)
	assert.True(t, decimal.RequireFromString("12.5").Equal(*in.UnitPrice.Value))
}

func TestOptionalInt64(t *testing.T) {
	var in UpdateCategoryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &in))
	assert.False(t, in.ParentID.Set)

	in = UpdateCategoryRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"parent_id":null}`), &in))
	assert.True(t, in.ParentID.Set)
	assert.Nil(t, in.ParentID.Value)

	in = UpdateCategoryRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"parent_id":7}`), &in))
	assert.True(t, in.ParentID.Set)
	require.NotNil(t, in.ParentID.Value)
	assert.Equal(t, int64(7), *in.ParentID.Value)
}

func TestStatisticsResponse_ClaveDinamica(t *testing.T) {
	s := StatisticsResponse{Period: PeriodWeek, PeriodOut: 12, TotalValue: decimal.NewFromInt(30)}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.EqualValues(t, 12, out["week_out"])
	assert.NotContains(t, out, "month_out")
	assert.Equal(t, []any{}, out["top_requested_materials"])
	assert.Equal(t, "30", out["total_value"])
}
