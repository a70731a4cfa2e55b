package reservations

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
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyReservation))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	req := ListReservationsRequest{Limit: 50}
	if v := r.URL.Query().Get("trip_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.TripID = &parsed
		}
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.UserID = &parsed
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
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
		h.logger.Error("list reservations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reservations": result})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyReservation))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid reservation id")
		return
	}

	res, err := strategy.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyReservation))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req CreateReservationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	res, err := strategy.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create reservation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyReservation))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid reservation id")
		return
	}

	var req UpdateReservationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	res, err := strategy.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update reservation", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyReservation))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid reservation id")
		return
	}

	if err := strategy.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete reservation", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
