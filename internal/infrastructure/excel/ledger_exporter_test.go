package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
)

func TestWriteTransactions(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	user := int64(3)
	rows := []dto.TransactionResponse{
		{ID: 2, MaterialID: 7, TransactionType: "out", Quantity: 3, BeforeQuantity: 10, AfterQuantity: 7, UserID: &user, Notes: "práctica", CreatedAt: time.Date(2026, 3, 7, 1, 0, 0, 0, time.UTC)},
		{ID: 1, MaterialID: 7, TransactionType: "adjust", Quantity: -2, BeforeQuantity: 12, AfterQuantity: 10, CreatedAt: time.Date(2026, 3, 6, 1, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	e := NewLedgerExporter(loc)
	require.NoError(t, e.WriteTransactions(&buf, rows))
	assert.Equal(t, "xlsx", e.FileExtension())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Tipo", got[0][2])
	assert.Equal(t, "out", got[1][2])
	assert.Equal(t, "3", got[1][6])
	assert.Equal(t, "2026-03-07 09:00:00", got[1][9])
	assert.Equal(t, "-2", got[2][3])
	assert.Equal(t, "", got[2][6])
}
