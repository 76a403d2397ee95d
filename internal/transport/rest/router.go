package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/viniciusmartins/fuelmap-backend/internal/config"
	"github.com/viniciusmartins/fuelmap-backend/internal/observability"
	"github.com/viniciusmartins/fuelmap-backend/internal/transport/middleware"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Log      *slog.Logger
	Health   *HealthHandler
	DataSync *DataSyncHandler
	Stations *StationHandler
	CORS     config.CORSConfig
}

// NewRouter builds the HTTP router with the standard middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", deps.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", deps.Health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/live", deps.Health.Live).Methods(http.MethodGet)
	r.Handle("/metrics", observability.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/data-sync/process", deps.DataSync.Process).Methods(http.MethodPost)
	v1.HandleFunc("/gas-stations", deps.Stations.Search).Methods(http.MethodGet)
	v1.HandleFunc("/gas-stations/statistics", deps.Stations.Statistics).Methods(http.MethodGet)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(deps.Log),
		middleware.Logger(deps.Log),
		middleware.CORS(deps.CORS),
	)
	return chain(r)
}
