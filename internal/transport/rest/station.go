package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/station"
)

// stationReader is the read-side repository surface the handler consumes.
type stationReader interface {
	Search(ctx context.Context, filter station.Filter) (*station.SearchResult, error)
	Statistics(ctx context.Context) (*station.Statistics, error)
}

// StationHandler serves the read-only gas station endpoints.
type StationHandler struct {
	log  *slog.Logger
	repo stationReader
}

// NewStationHandler creates a StationHandler.
func NewStationHandler(log *slog.Logger, repo stationReader) *StationHandler {
	return &StationHandler{log: log, repo: repo}
}

type stationItem struct {
	ID           string  `json:"id"`
	Nome         string  `json:"nome"`
	NomeFantasia *string `json:"nome_fantasia,omitempty"`
	Bandeira     *string `json:"bandeira,omitempty"`
	CNPJ         string  `json:"cnpj"`
	UF           string  `json:"uf"`
	Municipio    string  `json:"municipio"`
	Endereco     string  `json:"endereco"`
	Bairro       *string `json:"bairro,omitempty"`
	CEP          *string `json:"cep,omitempty"`
}

type searchResponse struct {
	Results []stationItem `json:"results"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// Search filters stations by uf, municipio, produto, and bandeira query
// parameters, with limit/offset pagination.
func (h *StationHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := station.Filter{
		UF:        queryParam(q.Get("uf")),
		Municipio: queryParam(q.Get("municipio")),
		Bandeira:  queryParam(q.Get("bandeira")),
		Produto:   queryParam(q.Get("produto")),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		filter.Offset = n
	}

	result, err := h.repo.Search(r.Context(), filter)
	if err != nil {
		h.log.Error("station search failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	resp := searchResponse{
		Results: make([]stationItem, 0, len(result.Rows)),
		Total:   result.Total,
		Limit:   result.Limit,
		Offset:  result.Offset,
	}
	for _, row := range result.Rows {
		resp.Results = append(resp.Results, stationItem{
			ID:           row.Station.ID.String(),
			Nome:         row.Station.Nome,
			NomeFantasia: row.Station.NomeFantasia,
			Bandeira:     row.Station.Bandeira,
			CNPJ:         row.Station.CNPJ,
			UF:           row.Location.UF,
			Municipio:    row.Location.Municipio,
			Endereco:     row.Location.FullAddress(),
			Bairro:       row.Location.Bairro,
			CEP:          row.Location.CEP,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type statisticsResponse struct {
	TotalStations int                `json:"totalStations"`
	ByState       []stateCountItem   `json:"byState"`
	ByProduct     []productStatsItem `json:"byProduct"`
	LastUpdate    *time.Time         `json:"lastUpdate"`
}

type stateCountItem struct {
	UF    string `json:"uf"`
	Total int    `json:"total"`
}

type productStatsItem struct {
	Produto    string `json:"produto"`
	Total      int    `json:"total"`
	PrecoMedio string `json:"precoMedio"`
	PrecoMin   string `json:"precoMin"`
	PrecoMax   string `json:"precoMax"`
}

// Statistics returns aggregate station and price figures.
func (h *StationHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Statistics(r.Context())
	if err != nil {
		h.log.Error("station statistics failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "statistics failed")
		return
	}

	resp := statisticsResponse{
		TotalStations: stats.TotalStations,
		ByState:       make([]stateCountItem, 0, len(stats.ByState)),
		ByProduct:     make([]productStatsItem, 0, len(stats.ByProduct)),
		LastUpdate:    stats.LastUpdate,
	}
	for _, sc := range stats.ByState {
		resp.ByState = append(resp.ByState, stateCountItem{UF: sc.UF, Total: sc.Total})
	}
	for _, ps := range stats.ByProduct {
		resp.ByProduct = append(resp.ByProduct, productStatsItem{
			Produto:    ps.Produto,
			Total:      ps.Total,
			PrecoMedio: ps.PrecoMedio.StringFixed(3),
			PrecoMin:   ps.PrecoMin.StringFixed(3),
			PrecoMax:   ps.PrecoMax.StringFixed(3),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func queryParam(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
