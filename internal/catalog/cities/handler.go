package cities

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/platform/httpx"
)

// Handler maps city HTTP operations onto one resolve plus one strategy call.
type Handler struct {
	logger   *slog.Logger
	registry *authz.Registry
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, registry *authz.Registry) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyCity))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	req := ListCitiesRequest{Limit: 50}
	if country := r.URL.Query().Get("country"); country != "" {
		req.Country = &country
	}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	result, err := strategy.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list cities", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cities": result})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyCity))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid city id")
		return
	}

	city, err := strategy.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, city)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyCity))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req CreateCityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	city, err := strategy.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create city", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, city)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyCity))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid city id")
		return
	}

	var req UpdateCityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	city, err := strategy.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update city", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, city)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyCity))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid city id")
		return
	}

	if err := strategy.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete city", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
