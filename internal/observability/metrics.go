// Package observability exposes Prometheus metrics for the ingestion
// pipeline and the HTTP surface.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SyncRunsTotal counts ingestion runs by outcome (committed, rolled_back).
	SyncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelmap_sync_runs_total",
			Help: "Total de execuções do pipeline de sincronização",
		},
		[]string{"outcome"},
	)

	// SyncRowsTotal counts ingested rows by disposition.
	SyncRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelmap_sync_rows_total",
			Help: "Total de linhas por destino (processed, skipped, duplicated)",
		},
		[]string{"disposition"},
	)

	// PriceRecordsCreated counts new price observations persisted.
	PriceRecordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fuelmap_price_records_created_total",
			Help: "Total de novos registros de preço persistidos",
		},
	)

	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelmap_http_requests_total",
			Help: "Total de requisições HTTP por rota e status",
		},
		[]string{"route", "status"},
	)
)

// Register installs the package metrics on the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(SyncRunsTotal, SyncRowsTotal, PriceRecordsCreated, HTTPRequestsTotal)
}

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
