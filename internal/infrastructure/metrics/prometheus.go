// Package metrics registra las métricas Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Recorder)(nil)

// Recorder agrupa los collectors de negocio y HTTP sobre un registry propio.
type Recorder struct {
	registry      *prometheus.Registry
	ledgerEntries *prometheus.CounterVec
	requisitions  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
}

// NewRecorder crea y registra los collectors (incluye los de proceso y runtime de Go).
func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Entradas confirmadas en el libro de inventario por tipo.",
		}, []string{"type"}),
		requisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requisitions_total",
			Help:      "Solicitudes de materiales creadas o resueltas por estado.",
		}, []string{"status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Peticiones HTTP en curso.",
		}),
	}
	r.registry.MustRegister(
		r.ledgerEntries,
		r.requisitions,
		r.httpDuration,
		r.httpInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry expone el registry para el handler /metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) LedgerEntry(transactionType string) {
	r.ledgerEntries.WithLabelValues(transactionType).Inc()
}

func (r *Recorder) Requisition(status string) {
	r.requisitions.WithLabelValues(status).Inc()
}

// RequestStarted incrementa el gauge de peticiones en curso y devuelve la función que cierra la observación.
func (r *Recorder) RequestStarted() func(method, route string, status int) {
	start := time.Now()
	r.httpInFlight.Inc()
	return func(method, route string, status int) {
		r.httpInFlight.Dec()
		r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	}
}
