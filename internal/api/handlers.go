package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/migdam/graphs/internal/analysis"
	"github.com/migdam/graphs/internal/service"
	"github.com/migdam/graphs/internal/state"
)

// Handler exposes the analysis pipeline over HTTP.
type Handler struct {
	Analysis *analysis.Service
	State    *state.AppState
	DB       service.DataSource
	Logger   *zap.Logger
}

// NewHandler wires the handler.
func NewHandler(analysisSvc *analysis.Service, st *state.AppState, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Analysis: analysisSvc,
		State:    st,
		Logger:   logger,
	}
}

// RegisterRoutes mounts all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/api/datasets", h.CreateDataset)
	r.Get("/api/datasets", h.ListDatasets)
	r.Delete("/api/datasets/{id}", h.DeleteDataset)
	r.Get("/api/datasets/{id}/profile", h.GetProfile)
	r.Get("/api/datasets/{id}/decide", h.Decide)
	r.Post("/api/datasets/{id}/analyze", h.Analyze)

	r.Post("/api/analyze", h.AnalyzeInline)
	r.Post("/api/batch/analyze", h.AnalyzeBatch)

	r.Post("/api/db/connect", h.ConnectDB)
	r.Get("/api/db/tables", h.ListTables)
	r.Post("/api/db/load", h.LoadTable)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// DatasetRequest accepts a dataset either as rows under explicit columns or
// as a list of records.
type DatasetRequest struct {
	Name    string              `json:"name"`
	Columns []string            `json:"columns,omitempty"`
	Rows    [][]string          `json:"rows,omitempty"`
	Records []map[string]string `json:"records,omitempty"`
}

// AnalyzeRequest tunes one analysis call.
type AnalyzeRequest struct {
	Preference     string `json:"preference,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// BatchRequest carries multiple inline datasets.
type BatchRequest struct {
	Datasets       []DatasetRequest `json:"datasets"`
	Preference     string           `json:"preference,omitempty"`
	TimeoutSeconds int              `json:"timeout_seconds,omitempty"`
}

// CreateDataset registers an in-memory dataset and returns its ID.
func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req DatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	ds, err := datasetFromRequest(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	id := uuid.NewString()
	h.State.AddDataset(id, ds)
	h.Logger.Info("dataset registered",
		zap.String("id", id),
		zap.String("name", ds.Name),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()))

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"name":    ds.Name,
		"rows":    ds.NumRows(),
		"columns": ds.NumColumns(),
	})
}

// ListDatasets returns the registered dataset IDs and names.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.State.ListDatasets())
}

// DeleteDataset removes a dataset from the registry.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	h.State.RemoveDataset(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile returns the data profile of a registered dataset.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ds := h.State.GetDataset(chi.URLParam(r, "id"))
	if ds == nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}
	profile, err := h.Analysis.Profile(ds)
	if err != nil {
		h.respondDatasetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Decide returns the chosen visualization type, the ranked candidates and
// the implied axis columns.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	ds := h.State.GetDataset(chi.URLParam(r, "id"))
	if ds == nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}
	decision, err := h.Analysis.Decide(ds, r.URL.Query().Get("preference"))
	if err != nil {
		h.respondDatasetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, decision)
}

// Analyze runs the full analytics pipeline on a registered dataset.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ds := h.State.GetDataset(chi.URLParam(r, "id"))
	if ds == nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}
	var req AnalyzeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}
	result, err := h.Analysis.Analyze(r.Context(), ds, analysis.Options{
		Preference: req.Preference,
		Timeout:    time.Duration(req.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		h.respondDatasetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// AnalyzeInline analyzes a dataset supplied in the request body without
// registering it.
func (h *Handler) AnalyzeInline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DatasetRequest
		AnalyzeRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	ds, err := datasetFromRequest(req.DatasetRequest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	result, err := h.Analysis.Analyze(r.Context(), ds, analysis.Options{
		Preference: req.Preference,
		Timeout:    time.Duration(req.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		h.respondDatasetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// AnalyzeBatch analyzes multiple inline datasets best-effort: a failing
// dataset reports its error without cancelling the rest.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	datasets := make([]*state.Dataset, 0, len(req.Datasets))
	for _, dr := range req.Datasets {
		ds, err := datasetFromRequest(dr)
		if err != nil {
			// Structurally invalid entries still get a slot in the
			// results; build a placeholder the pipeline will reject.
			ds = &state.Dataset{Name: dr.Name}
		}
		datasets = append(datasets, ds)
	}
	results := h.Analysis.AnalyzeBatch(r.Context(), datasets, analysis.Options{
		Preference: req.Preference,
		Timeout:    time.Duration(req.TimeoutSeconds) * time.Second,
	})
	respondJSON(w, http.StatusOK, results)
}

// ConnectDB establishes a database connection for table loading.
func (h *Handler) ConnectDB(w http.ResponseWriter, r *http.Request) {
	var config service.DataSourceConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if config.Type != "postgres" {
		http.Error(w, "Only postgres is supported currently", http.StatusBadRequest)
		return
	}

	ds := &service.PostgresDataSource{}
	if err := ds.Connect(config); err != nil {
		http.Error(w, "Connection failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	if h.DB != nil {
		h.DB.Close()
	}
	h.DB = ds
	respondJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// ListTables lists the tables of the connected database.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		http.Error(w, "No database connected", http.StatusBadRequest)
		return
	}
	tables, err := h.DB.ListTables()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"tables": tables})
}

// LoadTable loads a database table into the dataset registry.
func (h *Handler) LoadTable(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		http.Error(w, "No database connected", http.StatusBadRequest)
		return
	}
	var req struct {
		Table string `json:"table"`
		Limit int    `json:"limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	ds, err := h.DB.LoadTable(req.Table, req.Limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	id := uuid.NewString()
	h.State.AddDataset(id, ds)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"name":    ds.Name,
		"rows":    ds.NumRows(),
		"columns": ds.NumColumns(),
	})
}

func (h *Handler) respondDatasetError(w http.ResponseWriter, err error) {
	if errors.Is(err, state.ErrEmptyDataset) || errors.Is(err, state.ErrRaggedDataset) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.Logger.Error("analysis failed", zap.Error(err))
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

// datasetFromRequest builds a dataset from either representation and
// validates its structure.
func datasetFromRequest(req DatasetRequest) (*state.Dataset, error) {
	ds := &state.Dataset{Name: req.Name}

	switch {
	case len(req.Records) > 0:
		// Column order follows the first record's keys, sorted for
		// determinism since JSON objects are unordered.
		ds.Headers = sortedKeys(req.Records[0])
		for _, rec := range req.Records {
			row := make([]string, len(ds.Headers))
			for i, col := range ds.Headers {
				row[i] = rec[col]
			}
			ds.Rows = append(ds.Rows, row)
		}
	default:
		ds.Headers = req.Columns
		ds.Rows = req.Rows
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
