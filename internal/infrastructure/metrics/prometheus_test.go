package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue busca el valor de un counter con la etiqueta indicada en el registry.
func counterValue(t *testing.T, r *Recorder, name, label, value string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == label && l.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRecorder(t *testing.T) {
	r := NewRecorder("laboratorio")

	r.LedgerEntry("out")
	r.LedgerEntry("out")
	r.LedgerEntry("adjust")
	r.Requisition("pending")

	assert.Equal(t, 2.0, counterValue(t, r, "laboratorio_ledger_entries_total", "type", "out"))
	assert.Equal(t, 1.0, counterValue(t, r, "laboratorio_ledger_entries_total", "type", "adjust"))
	assert.Equal(t, 1.0, counterValue(t, r, "laboratorio_requisitions_total", "status", "pending"))

	done := r.RequestStarted()
	done("GET", "/api/v1/materials", 200)

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["laboratorio_http_request_duration_seconds"])
	assert.True(t, names["laboratorio_http_requests_in_flight"])
}
