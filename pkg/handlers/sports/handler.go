package sports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/betcatalog/core/pkg/logger"
	"github.com/betcatalog/core/pkg/models"
	"github.com/betcatalog/core/pkg/models/api"
	"github.com/betcatalog/core/pkg/repository"
	"github.com/betcatalog/core/pkg/utils"
)

// Store is the sport repository surface the handler uses.
type Store interface {
	Create(ctx context.Context, data map[string]any) (*models.Sport, error)
	GetByID(ctx context.Context, id string) (*models.Sport, error)
	List(ctx context.Context, params repository.ListParams) (*repository.Page[models.Sport], error)
	Update(ctx context.Context, id string, data map[string]any) (*models.Sport, error)
	Delete(ctx context.Context, id string) error
}

// Ingester pulls sports from the external provider.
type Ingester interface {
	IngestSports(ctx context.Context, count int) (int, error)
}

// Handler handles sports-related requests
type Handler struct {
	store  Store
	ingest Ingester
	logger *logger.Logger
}

// NewHandler creates a new sports handler
func NewHandler(store Store, ingest Ingester, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		ingest: ingest,
		logger: log,
	}
}

// Collection handles POST and GET on /v1/sports
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", api.CodeMethodNotAllowed)
	}
}

// Item handles GET, PATCH and DELETE on /v1/sports/{id}
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", api.CodeMethodNotAllowed)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.WriteError(w, http.StatusBadRequest, "request body must be a JSON object", api.CodeInvalidRequest)
		return
	}

	h.logger.Info().
		Str("action", "create_sport").
		Msg("Create sport request received")

	sport, err := h.store.Create(ctx, data)
	if err != nil {
		h.writeError(w, err, api.CodeSportCreationFailed)
		return
	}

	api.WriteSuccess(w, http.StatusCreated, sport, nil)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.PathValue("id")
	sport, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, err, api.CodeInvalidRequest)
		return
	}

	api.WriteSuccess(w, http.StatusOK, sport, nil)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	params, tagErr := utils.ParseListParams(r.URL.Query(), "name_or_url_pattern")
	if tagErr != nil {
		api.WriteError(w, http.StatusBadRequest, tagErr, api.CodeTagError)
		return
	}

	page, err := h.store.List(ctx, params)
	if err != nil {
		h.writeError(w, err, api.CodeInvalidRequest)
		return
	}

	h.logger.Info().
		Str("action", "sports_response").
		Int("count", len(page.Items)).
		Int64("total", page.Total).
		Msg("Returning sports list")

	api.WriteSuccess(w, http.StatusOK, map[string]any{"sports": page.Items}, api.ListMeta{
		Count:      page.Total,
		CountKey:   "sport_count",
		PageNumber: page.PageNumber,
		PageOffset: page.PageOffset,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		api.WriteError(w, http.StatusBadRequest, "request body must be a JSON object", api.CodeInvalidRequest)
		return
	}

	id := r.PathValue("id")
	sport, err := h.store.Update(ctx, id, data)
	if err != nil {
		h.writeError(w, err, api.CodeInvalidRequest)
		return
	}

	api.WriteSuccess(w, http.StatusOK, sport, nil)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.PathValue("id")
	if err := h.store.Delete(ctx, id); err != nil {
		h.writeError(w, err, api.CodeInvalidRequest)
		return
	}

	api.WriteSuccess(w, http.StatusOK, map[string]string{
		"message": "Sport successfully deleted with id=" + id,
	}, nil)
}

// UploadExternal handles POST /v1/sports/upload_external
func (h *Handler) UploadExternal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", api.CodeMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	created, err := h.ingest.IngestSports(ctx, count)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "ingest_sports_failed").
			Msg("Sports ingestion failed")
		api.WriteError(w, http.StatusBadGateway, err.Error(), api.CodeExternalAPIError)
		return
	}

	api.WriteSuccess(w, http.StatusCreated, map[string]any{"ingested": created}, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, code string) {
	var validationErr *models.ValidationError
	var conflictErr *models.ConflictError

	switch {
	case errors.Is(err, models.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "No such sport found", api.CodeSportNotFound)
	case errors.As(err, &validationErr):
		api.WriteError(w, http.StatusBadRequest, validationErr.Fields, code)
	case errors.As(err, &conflictErr):
		api.WriteError(w, http.StatusBadRequest, conflictErr.Detail, code)
	case errors.Is(err, models.ErrNoUpdateFields):
		api.WriteError(w, http.StatusBadRequest, err.Error(), api.CodeInvalidRequest)
	default:
		h.logger.Error().
			Err(err).
			Str("action", "sport_request_failed").
			Msg("Sport request failed")
		api.WriteError(w, http.StatusInternalServerError, "internal server error", api.CodeInternalServerError)
	}
}
