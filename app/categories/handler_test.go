package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/models"
	"github.com/stretchr/testify/assert"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories  []models.Category
	Pagination  loading.Pagination
	ListErr     error
	SaveErr     error
	DeleteErr   error
	LastParams  loading.Params
	LastSaved   *models.Category
	LastDeleted *models.Category
}

func (m *MockCategoryRepo) ListCategories(_ context.Context, params loading.Params) (*loading.Result[models.Category], error) {
	m.LastParams = params
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return &loading.Result[models.Category]{Records: m.Categories, Pagination: m.Pagination}, nil
}

func (m *MockCategoryRepo) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			c := m.Categories[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockCategoryRepo) SaveCategory(_ context.Context, c *models.Category) error {
	m.LastSaved = c
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if fields := models.Validate(c); fields.Any() {
		return &models.ValidationError{Fields: fields}
	}
	if c.ID == 0 {
		c.ID = 100
	}
	return nil
}

func (m *MockCategoryRepo) DeleteCategory(_ context.Context, c *models.Category) error {
	m.LastDeleted = c
	return m.DeleteErr
}

func seeded() *MockCategoryRepo {
	return &MockCategoryRepo{
		Categories: []models.Category{{ID: 1, Name: "Action"}, {ID: 2, Name: "RPG"}},
		Pagination: loading.Pagination{Page: 1, Length: 10, Total: 2, TotalPages: 1},
	}
}

func serve(h *CategoryHandler, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", h.HandleGetAll)
	mux.HandleFunc("POST /categories", h.HandleCreate)
	mux.HandleFunc("GET /categories/{id}", h.HandleGet)
	mux.HandleFunc("PATCH /categories/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /categories/{id}", h.HandleDelete)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests: GET /categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		target             string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo)
	}{
		{
			name:               "Success with multiple categories",
			target:             "/categories",
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockCategoryRepo) {
				var resp struct {
					Categories []CategoryResponse  `json:"categories"`
					Meta       loading.Pagination `json:"meta"`
				}
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp.Categories, 2)
				assert.Equal(t, "Action", resp.Categories[0].Name)
				assert.Equal(t, uint(2), resp.Categories[1].ID)
				assert.Equal(t, int64(2), resp.Meta.Total)
			},
		},
		{
			name:               "Passes search, order and paging",
			target:             "/categories?search[name]=act&order[name]=desc&page=2&length=5",
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, _ *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				assert.Equal(t, map[string]string{"name": "act"}, repo.LastParams.Search)
				assert.Equal(t, map[string]string{"name": "desc"}, repo.LastParams.Order)
				assert.Equal(t, "2", repo.LastParams.Page)
				assert.Equal(t, "5", repo.LastParams.Length)
			},
		},
		{
			name: "Success with empty list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: []models.Category{}}
			},
			target:             "/categories",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockCategoryRepo) {
				assert.JSONEq(t, `{"categories":[],"meta":{"page":0,"length":0,"total":0,"total_pages":0}}`, rec.Body.String())
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{ListErr: errors.New("db down")}
			},
			target:             "/categories",
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockCategoryRepo) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "failed to fetch categories", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)

			// Act
			rec := serve(handler, http.MethodGet, tc.target, "")

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec, mockRepo)
			}
		})
	}
}

// --- Tests: GET /categories/{id} ---

func TestHandleGet(t *testing.T) {
	testCases := []struct {
		name               string
		target             string
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name:               "Found",
			target:             "/categories/2",
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"category":{"id":2,"name":"RPG"}}`,
		},
		{
			name:               "Unknown id",
			target:             "/categories/99",
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedBody:       `{"errors":{"message":"Could not find category."}}`,
		},
		{
			name:               "Malformed id",
			target:             "/categories/abc",
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedBody:       `{"errors":{"message":"Could not find category."}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(NewCategoryHandler(seeded()), http.MethodGet, tc.target, "")
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

// --- Tests: POST /categories ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockCategoryRepo)
	}{
		{
			name:               "Success",
			requestBody:        `{"category":{"name":"Accessories"}}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"category":{"id":100,"name":"Accessories"}}`, rec.Body.String())
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved)
				assert.Equal(t, "Accessories", repo.LastSaved.Name)
			},
		},
		{
			name:               "Ignores attributes outside the whitelist",
			requestBody:        `{"category":{"id":7,"name":"Toys"}}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Equal(t, uint(100), repo.LastSaved.ID)
			},
		},
		{
			name:               "Invalid JSON body",
			requestBody:        `{invalid json`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Invalid JSON body", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "SaveCategory should not be called with invalid JSON")
			},
		},
		{
			name:               "Missing name",
			requestBody:        `{"category":{"name":""}}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"errors":{"fields":{"name":["can't be blank"]}}}`, rec.Body.String())
			},
		},
		{
			name:        "Repository error on create",
			requestBody: `{"category":{"name":"Toys"}}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{SaveErr: errors.New("insert failed")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "Failed to save category", errResp["error"])
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved, "SaveCategory should have been called")
				assert.Equal(t, "Toys", repo.LastSaved.Name)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)

			// Act
			rec := serve(handler, http.MethodPost, "/categories", tc.requestBody)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: PATCH /categories/{id} ---

func TestHandleUpdate(t *testing.T) {
	repo := seeded()
	rec := serve(NewCategoryHandler(repo), http.MethodPatch, "/categories/1", `{"category":{"name":"Adventure"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":{"id":1,"name":"Adventure"}}`, rec.Body.String())

	rec = serve(NewCategoryHandler(repo), http.MethodPatch, "/categories/1", `{"category":{"name":""}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"fields":{"name":["can't be blank"]}}}`, rec.Body.String())

	rec = serve(NewCategoryHandler(repo), http.MethodPatch, "/categories/42", `{"category":{"name":"X"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"message":"Could not find category."}}`, rec.Body.String())
}

// --- Tests: DELETE /categories/{id} ---

func TestHandleDelete(t *testing.T) {
	repo := seeded()
	rec := serve(NewCategoryHandler(repo), http.MethodDelete, "/categories/2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, uint(2), repo.LastDeleted.ID)

	repo = seeded()
	rec = serve(NewCategoryHandler(repo), http.MethodDelete, "/categories/42", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, repo.LastDeleted)
}
