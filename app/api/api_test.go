package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gamestore/store-admin/app/saving"
	"github.com/gamestore/store-admin/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNested(t *testing.T) {
	values := url.Values{
		"search[name]":            {"half"},
		"order[name]":             {"desc"},
		"page":                    {"2"},
		"product[name]":           {"Game"},
		"product[category_ids][]": {"1", "2"},
		"product[productable]":    {"game"},
		"product[release_date]":   {"2020-01-01"},
		"plain":                   {"a", "b"},
	}

	got := Nested(values)

	assert.Equal(t, map[string]interface{}{"name": "half"}, got["search"])
	assert.Equal(t, map[string]interface{}{"name": "desc"}, got["order"])
	assert.Equal(t, "2", got["page"])
	assert.Equal(t, "b", got["plain"])
	assert.Equal(t, map[string]interface{}{
		"name":         "Game",
		"category_ids": []interface{}{"1", "2"},
		"productable":  "game",
		"release_date": "2020-01-01",
	}, got["product"])
}

func TestListParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/v1/categories?search[name]=ac&order[name]=desc&page=3&length=5", nil)

	params := ListParams(req)

	assert.Equal(t, map[string]string{"name": "ac"}, params.Search)
	assert.Equal(t, map[string]string{"name": "desc"}, params.Order)
	assert.Equal(t, "3", params.Page)
	assert.Equal(t, "5", params.Length)
}

func TestID(t *testing.T) {
	testCases := []struct {
		value string
		id    uint
		ok    bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.value)
			id, ok := ID(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestDecodeBody(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"category":{"name":"Action"}}`))
		req.Header.Set("Content-Type", "application/json")
		body, err := DecodeBody(req)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"name": "Action"}, body["category"])
	})

	t.Run("empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		body, err := DecodeBody(req)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{invalid`))
		_, err := DecodeBody(req)
		assert.ErrorIs(t, err, ErrInvalidBody)
	})

	t.Run("multipart", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("product[name]", "Game"))
		require.NoError(t, mw.WriteField("product[category_ids][]", "4"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		body, err := DecodeBody(req)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"name":         "Game",
			"category_ids": []interface{}{"4"},
		}, body["product"])
	})
}

func TestPermit(t *testing.T) {
	wrapped := map[string]interface{}{
		"category": map[string]interface{}{"name": "Action", "id": 99, "admin": true},
	}
	assert.Equal(t, map[string]interface{}{"name": "Action"}, Permit(wrapped, "category", "name"))

	flat := map[string]interface{}{"name": "Action", "admin": true}
	assert.Equal(t, map[string]interface{}{"name": "Action"}, Permit(flat, "category", "name"))

	assert.Empty(t, Permit(map[string]interface{}{}, "category", "name"))
}

func TestResponses(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NotFound(rec, "coupon")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"errors":{"message":"Could not find coupon."}}`, rec.Body.String())
	})

	t.Run("validation error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Failed(rec, &models.ValidationError{Fields: models.FieldErrors{"name": {"can't be blank"}}}, "failed")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"errors":{"fields":{"name":["can't be blank"]}}}`, rec.Body.String())
	})

	t.Run("product not saved", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := errors.Wrap(&saving.NotSavedError{Fields: models.FieldErrors{"developer": {"can't be blank"}}}, "save")
		Failed(rec, err, "failed")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"errors":{"fields":{"developer":["can't be blank"]}}}`, rec.Body.String())
	})

	t.Run("internal error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Failed(rec, errors.New("db down"), "Failed to save category")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Failed to save category", resp["error"])
	})

	t.Run("no content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NoContent(rec)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogRequestsKeepsStatus(t *testing.T) {
	h := LogRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
