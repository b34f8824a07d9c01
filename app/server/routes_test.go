package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gamestore/store-admin/app/auth"
	"github.com/gamestore/store-admin/app/storage"
	"github.com/gamestore/store-admin/config"
	"github.com/gamestore/store-admin/models"
	"github.com/gamestore/store-admin/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRouter(t *testing.T) (*gorm.DB, http.Handler) {
	db := modelstest.Open(t)
	cfg := &config.Config{
		Auth:       config.AuthConfig{Secret: "test", TokenTTL: time.Hour},
		Storage:    config.StorageConfig{Dir: t.TempDir(), BaseURL: "http://localhost:8080"},
		Pagination: config.DefaultPagination(),
	}
	images, err := storage.NewLocal(cfg.Storage)
	require.NoError(t, err)
	return db, NewRouter(db, cfg, images)
}

func signIn(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/v1/user/sign_in",
		strings.NewReader(`{"email":"`+email+`","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Header().Get(auth.HeaderAccessToken)
}

func call(router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	db, router := newRouter(t)
	client := modelstest.CreateUser(t, db, models.ProfileClient)
	clientToken := signIn(t, router, client.Email)

	paths := []string{
		"/admin/v1/home",
		"/admin/v1/categories",
		"/admin/v1/coupons",
		"/admin/v1/licenses",
		"/admin/v1/system_requirements",
		"/admin/v1/products",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := call(router, http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = call(router, http.MethodGet, path, clientToken, "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.JSONEq(t, `{"errors":{"message":"Forbidden access"}}`, rec.Body.String())
		})
	}
}

func TestAdminFlow(t *testing.T) {
	db, router := newRouter(t)
	admin := modelstest.CreateUser(t, db, models.ProfileAdmin)
	token := signIn(t, router, admin.Email)

	rec := call(router, http.MethodGet, "/admin/v1/home", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Uhulll!!!!!"}`, rec.Body.String())

	for i := 0; i < 12; i++ {
		rec = call(router, http.MethodPost, "/admin/v1/categories", token, fmt.Sprintf(`{"category":{"name":"Category %02d"}}`, i))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = call(router, http.MethodGet, "/admin/v1/categories", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Categories []map[string]interface{} `json:"categories"`
		Meta       map[string]int           `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list.Categories, 10)
	assert.Equal(t, map[string]int{"page": 1, "length": 10, "total": 12, "total_pages": 2}, list.Meta)

	rec = call(router, http.MethodPut, "/admin/v1/categories/1", token, `{"category":{"name":"Renamed"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":{"id":1,"name":"Renamed"}}`, rec.Body.String())

	rec = call(router, http.MethodDelete, "/admin/v1/categories/1", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(router, http.MethodDelete, "/admin/v1/categories/1", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"message":"Could not find category."}}`, rec.Body.String())

	rec = call(router, http.MethodDelete, "/auth/v1/user/sign_out", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(router, http.MethodGet, "/admin/v1/home", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
