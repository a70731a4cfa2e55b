package heroimages

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

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyHeroImage))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	req := ListHeroImagesRequest{Limit: 50}
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
		h.logger.Error("list hero images", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"hero_images": result})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ReadStrategy](h.registry, ident.Role, authz.Read(authz.FamilyHeroImage))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hero image id")
		return
	}

	img, err := strategy.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, img)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyHeroImage))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req CreateHeroImageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	img, err := strategy.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create hero image", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, img)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyHeroImage))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hero image id")
		return
	}

	var req UpdateHeroImageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	img, err := strategy.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update hero image", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, img)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := authz.IdentityFromContext(r.Context())
	strategy, err := authz.ResolveAs[ManageStrategy](h.registry, ident.Role, authz.Manage(authz.FamilyHeroImage))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid hero image id")
		return
	}

	if err := strategy.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete hero image", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
