package trips

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	registry *authz.Registry
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, registry *authz.Registry) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyTrip))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	req := ListTripsRequest{Limit: 50}
	if v := r.URL.Query().Get("hotel_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.HotelID = &parsed
		}
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		active := v == "true"
		req.IsActive = &active
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
		h.logger.Error("list trips", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"trips": result})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyTrip))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid trip id")
		return
	}

	trip, err := strategy.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trip)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyTrip))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req CreateTripRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	trip, err := strategy.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create trip", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, trip)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyTrip))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid trip id")
		return
	}

	var req UpdateTripRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	trip, err := strategy.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update trip", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trip)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyTrip))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid trip id")
		return
	}

	if err := strategy.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete trip", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
