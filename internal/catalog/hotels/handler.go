package hotels

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
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyHotel))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	req := ListHotelsRequest{Limit: 50}
	if c := r.URL.Query().Get("city_id"); c != "" {
		if parsed, err := strconv.ParseInt(c, 10, 64); err == nil {
			req.CityID = &parsed
		}
	}
	if s := r.URL.Query().Get("stars"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			req.Stars = &parsed
		}
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
		h.logger.Error("list hotels", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"hotels": result})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyHotel))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hotel id")
		return
	}

	hotel, err := strategy.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, hotel)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyHotel))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req CreateHotelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	hotel, err := strategy.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create hotel", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, hotel)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyHotel))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hotel id")
		return
	}

	var req UpdateHotelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	hotel, err := strategy.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update hotel", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, hotel)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyHotel))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hotel id")
		return
	}

	if err := strategy.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete hotel", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
