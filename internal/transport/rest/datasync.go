package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/viniciusmartins/fuelmap-backend/internal/app/sync"
	"github.com/viniciusmartins/fuelmap-backend/internal/app/xlsx"
	"github.com/viniciusmartins/fuelmap-backend/internal/config"
	"github.com/viniciusmartins/fuelmap-backend/internal/observability"
)

// pipelineRunner is the ingestion entry point consumed by the handler.
type pipelineRunner interface {
	Run(ctx context.Context, csvPath string) (*sync.Result, error)
}

// fileTransformer converts spreadsheets to CSV and disposes of temp files.
type fileTransformer interface {
	Convert(xlsxPath, originalName string) (*xlsx.ConvertResult, error)
	Cleanup(paths ...string)
}

// DataSyncHandler triggers ingestion runs over files in the report
// directory.
type DataSyncHandler struct {
	log         *slog.Logger
	pipeline    pipelineRunner
	transformer fileTransformer
	cfg         config.SyncConfig
}

// NewDataSyncHandler creates a DataSyncHandler.
func NewDataSyncHandler(log *slog.Logger, pipeline pipelineRunner,
	transformer fileTransformer, cfg config.SyncConfig) *DataSyncHandler {
	return &DataSyncHandler{log: log, pipeline: pipeline, transformer: transformer, cfg: cfg}
}

type processRequest struct {
	// File is a name inside the configured report directory, .csv or .xlsx.
	File string `json:"file"`
}

type processResponse struct {
	Message string       `json:"message"`
	Data    *sync.Result `json:"data"`
}

// Process runs the pipeline over the named report file. An .xlsx file is
// converted to CSV first; the converted file is cleaned up asynchronously
// after the response is written. Recoverable row errors come back inside
// the result; only substrate failures produce a 500.
func (h *DataSyncHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.File) == "" {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	// Reject path traversal; only bare names inside CSVDir are served.
	if filepath.Base(req.File) != req.File {
		writeError(w, http.StatusBadRequest, "file must be a plain name")
		return
	}

	path := filepath.Join(h.cfg.CSVDir, req.File)
	var tempFiles []string

	if ext := strings.ToLower(filepath.Ext(req.File)); ext == ".xlsx" || ext == ".xls" {
		converted, err := h.transformer.Convert(path, req.File)
		if err != nil {
			h.log.Error("spreadsheet conversion failed",
				slog.String("file", req.File), slog.String("error", err.Error()))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		path = converted.CSVPath
		tempFiles = converted.TempFiles
	}

	result, err := h.pipeline.Run(r.Context(), path)

	// Temp file disposal is independent of the run's outcome.
	if len(tempFiles) > 0 {
		go h.transformer.Cleanup(tempFiles...)
	}

	if err != nil {
		observability.SyncRunsTotal.WithLabelValues("rolled_back").Inc()
		h.log.Error("ingestion failed", slog.String("file", req.File), slog.String("error", err.Error()))
		if errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "ingestion canceled")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.SyncRunsTotal.WithLabelValues("committed").Inc()
	observability.SyncRowsTotal.WithLabelValues("processed").Add(float64(result.ProcessedRows))
	observability.SyncRowsTotal.WithLabelValues("skipped").Add(float64(result.SkippedRows))
	observability.SyncRowsTotal.WithLabelValues("duplicated").Add(float64(result.DuplicatedRows))
	observability.PriceRecordsCreated.Add(float64(result.PriceHistories.Created))

	writeJSON(w, http.StatusOK, processResponse{
		Message: result.Summary(),
		Data:    result,
	})
}
