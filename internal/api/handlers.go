package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/staffdir/staffdir-backend/internal/config"
	"github.com/staffdir/staffdir-backend/internal/model"
	"github.com/staffdir/staffdir-backend/internal/presets"
	"github.com/staffdir/staffdir-backend/internal/query"
	"github.com/staffdir/staffdir-backend/internal/store"
)

// MetricsInterface defines the interface for metrics recording
type MetricsInterface interface {
	RecordQueryEvaluation(ctx context.Context, matched int)
}

type Handler struct {
	source  store.EmployeeSource
	presets *presets.Repository
	cache   *store.Cache
	config  *config.Config
	logger  *zap.SugaredLogger
	metrics MetricsInterface
}

func NewHandler(
	source store.EmployeeSource,
	presetRepo *presets.Repository,
	cache *store.Cache,
	config *config.Config,
	logger *zap.SugaredLogger,
	metrics MetricsInterface,
) *Handler {
	return &Handler{
		source:  source,
		presets: presetRepo,
		cache:   cache,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// Health endpoints

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.source.Snapshot(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "NOT_READY", "data source unavailable: "+err.Error())
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			h.writeError(w, http.StatusServiceUnavailable, "NOT_READY", "cache unavailable: "+err.Error())
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Employee endpoints

// ListEmployees decodes the query parameters, runs the filter/sort/paginate
// pipeline over a fresh snapshot, and returns one page. Defaults: page=0,
// limit from config, logic=AND, sortOrder=asc. The limit is clamped to the
// configured maximum rather than rejected.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	params, errCode, errMsg := h.decodeQueryParams(r)
	if errCode != "" {
		h.writeError(w, http.StatusBadRequest, errCode, errMsg)
		return
	}

	ttl := h.config.Cache.ResultTTL
	cacheKey := ""
	if h.cache != nil && ttl > 0 {
		cacheKey = queryCacheKey(params)
		var cached EmployeesResponse
		if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
			h.writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	records, err := h.source.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "DATA_SOURCE_ERROR", err.Error())
		return
	}

	result := query.Evaluate(records, params)
	h.metrics.RecordQueryEvaluation(r.Context(), result.Total)

	resp := EmployeesResponse{
		Data:    result.Data,
		Total:   result.Total,
		HasMore: result.HasMore,
	}

	if cacheKey != "" {
		if err := h.cache.Set(r.Context(), cacheKey, resp, ttl); err != nil {
			h.logger.Warnw("Failed to cache query result", "error", err)
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// decodeQueryParams maps the HTTP query string onto engine parameters.
// Malformed input is rejected here; the engine itself assumes well-typed
// parameters.
func (h *Handler) decodeQueryParams(r *http.Request) (query.Params, string, string) {
	q := r.URL.Query()

	page := 0
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return query.Params{}, "INVALID_PARAMETER", "page must be a non-negative integer"
		}
		page = n
	}

	limit := h.config.Query.DefaultPageSize
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return query.Params{}, "INVALID_PARAMETER", "limit must be a positive integer"
		}
		limit = n
	}
	if limit > h.config.Query.MaxPageSize {
		limit = h.config.Query.MaxPageSize
	}

	logic := query.CombinatorAnd
	switch strings.ToUpper(q.Get("logic")) {
	case "", "AND":
	case "OR":
		logic = query.CombinatorOr
	default:
		return query.Params{}, "INVALID_PARAMETER", "logic must be AND or OR"
	}

	var sortSpec *query.Sort
	sortOrder := q.Get("sortOrder")
	switch sortOrder {
	case "", "asc", "desc":
	default:
		return query.Params{}, "INVALID_PARAMETER", "sortOrder must be asc or desc"
	}
	if field := q.Get("sortField"); field != "" {
		sortSpec = &query.Sort{Field: field, Descending: sortOrder == "desc"}
	}

	var conditions []query.Condition
	if s := q.Get("filters"); s != "" {
		if err := json.Unmarshal([]byte(s), &conditions); err != nil {
			return query.Params{}, "INVALID_FILTERS", "filters must be a JSON array of {field, operator, value}"
		}
	}

	return query.Params{
		Conditions: conditions,
		Combinator: logic,
		Sort:       sortSpec,
		Page:       page,
		PageSize:   limit,
	}, "", ""
}

func queryCacheKey(p query.Params) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return store.KeyQueryResult + ":" + hex.EncodeToString(sum[:16])
}

// GetEmployeeFields returns the queryable field names and types so the
// frontend can build its filter controls from the schema.
func (h *Handler) GetEmployeeFields(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, FieldsResponse{Fields: model.Schema()})
}

// Preset endpoints

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := h.presets.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "PRESET_STORE_ERROR", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	preset, err := h.presets.Get(r.Context(), id)
	if err != nil {
		h.writePresetError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, preset)
}

func (h *Handler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	created, err := h.presets.Create(r.Context(), presetFromRequest(req))
	if err != nil {
		h.writePresetError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	updated, err := h.presets.Update(r.Context(), id, presetFromRequest(req))
	if err != nil {
		h.writePresetError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.presets.Delete(r.Context(), id); err != nil {
		h.writePresetError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func presetFromRequest(req PresetRequest) presets.Preset {
	return presets.Preset{
		Name:      req.Name,
		Filters:   req.Filters,
		Logic:     req.Logic,
		SortField: req.SortField,
		SortOrder: req.SortOrder,
	}
}

func (h *Handler) writePresetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, presets.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "PRESET_NOT_FOUND", err.Error())
	case errors.Is(err, presets.ErrInvalid):
		h.writeError(w, http.StatusBadRequest, "INVALID_PRESET", err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, "PRESET_STORE_ERROR", err.Error())
	}
}

// Response helpers

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.logger.Errorw("API error", "code", code, "message", message, "status", status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := ErrorResponse{
		Code:    code,
		Message: message,
	}
	json.NewEncoder(w).Encode(err)
}
