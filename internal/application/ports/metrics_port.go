package ports

// MetricsRecorder puerto de salida para métricas de negocio. El adaptador Prometheus
// vive en infrastructure/metrics; NopMetrics se usa cuando las métricas están deshabilitadas.
type MetricsRecorder interface {
	// LedgerEntry se invoca una vez por entrada del libro confirmada.
	LedgerEntry(transactionType string)
	// Requisition se invoca al crear (pending) y al resolver (approved/rejected) una solicitud.
	Requisition(status string)
}

// NopMetrics descarta todas las observaciones.
type NopMetrics struct{}

func (NopMetrics) LedgerEntry(string) {}
func (NopMetrics) Requisition(string) {}
