package cities_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/catalog/cities"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type stubRepo struct {
	city       *cities.City
	hotelCount int64
}

func (s *stubRepo) Get(ctx context.Context, id int64) (*cities.City, error) {
	if s.city == nil || s.city.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.city, nil
}

func (s *stubRepo) List(ctx context.Context, req cities.ListCitiesRequest) ([]cities.City, error) {
	if s.city == nil {
		return nil, nil
	}
	return []cities.City{*s.city}, nil
}

func (s *stubRepo) Create(ctx context.Context, city cities.City) (int64, error) {
	city.ID = 1
	s.city = &city
	return 1, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	s.city = nil
	return nil
}

func (s *stubRepo) CountHotels(ctx context.Context, cityID int64) (int64, error) {
	return s.hotelCount, nil
}

type nopForgetter struct{}

func (nopForgetter) Forget(ctx context.Context, keys ...string) error { return nil }

func newRouter(t *testing.T, repo cities.Repository) chi.Router {
	t.Helper()
	reg := authz.NewRegistry()
	cities.Register(reg, repo, lifecycle.NewNotifier(nopForgetter{}, slog.Default(), nil))
	reg.Seal()

	r := chi.NewRouter()
	handler := cities.NewHandler(slog.Default(), reg)
	r.Route("/cities", handler.MountRoutes)
	return r
}

func doRequest(router chi.Router, role authz.Role, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := authz.ContextWithIdentity(req.Context(), authz.Identity{ID: 1, Role: role})
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req.WithContext(ctx))
	return res
}

func TestGuestCanReadCities(t *testing.T) {
	router := newRouter(t, &stubRepo{city: &cities.City{ID: 3, Name: "Lisbon", Country: "PT"}})

	res := doRequest(router, authz.RoleGuest, http.MethodGet, "/cities/3", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Lisbon")
}

func TestGuestCannotCreateCity(t *testing.T) {
	repo := &stubRepo{}
	router := newRouter(t, repo)

	res := doRequest(router, authz.RoleGuest, http.MethodPost, "/cities/", `{"name":"Lisbon","country":"PT"}`)
	require.Equal(t, http.StatusForbidden, res.Code)
	assert.Nil(t, repo.city, "denied request must not touch persistence")
}

func TestUserCannotCreateCity(t *testing.T) {
	router := newRouter(t, &stubRepo{})

	res := doRequest(router, authz.RoleUser, http.MethodPost, "/cities/", `{"name":"Lisbon","country":"PT"}`)
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestAdminCreatesCity(t *testing.T) {
	router := newRouter(t, &stubRepo{})

	res := doRequest(router, authz.RoleAdmin, http.MethodPost, "/cities/", `{"name":"Lisbon","country":"PT"}`)
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Contains(t, res.Body.String(), "Lisbon")
}

func TestCreateValidation(t *testing.T) {
	router := newRouter(t, &stubRepo{})

	// country must be a two-letter code
	res := doRequest(router, authz.RoleAdmin, http.MethodPost, "/cities/", `{"name":"Lisbon","country":"Portugal"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDeleteConflictMapsTo422(t *testing.T) {
	repo := &stubRepo{city: &cities.City{ID: 3, Name: "Lisbon", Country: "PT"}, hotelCount: 1}
	router := newRouter(t, repo)

	res := doRequest(router, authz.RoleAdmin, http.MethodDelete, "/cities/3", "")
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.NotNil(t, repo.city)
}

func TestGetMissingCity(t *testing.T) {
	router := newRouter(t, &stubRepo{})

	res := doRequest(router, authz.RoleAdmin, http.MethodGet, "/cities/9", "")
	require.Equal(t, http.StatusNotFound, res.Code)
}
