package api

import (
	"encoding/json"
	"net/http"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/app/saving"
	"github.com/gamestore/store-admin/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

// List renders records under key together with the pagination meta.
func List(w http.ResponseWriter, key string, records interface{}, meta loading.Pagination) {
	JSON(w, http.StatusOK, map[string]interface{}{
		key:    records,
		"meta": meta,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NotFound renders the 422 message envelope used by the admin resources.
func NotFound(w http.ResponseWriter, resource string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"errors": map[string]string{"message": "Could not find " + resource + "."},
	})
}

// Invalid renders field validation messages with status 422.
func Invalid(w http.ResponseWriter, fields models.FieldErrors) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"errors": map[string]interface{}{"fields": fields},
	})
}

// Failed reports err as validation messages when it carries any, and as
// an internal error otherwise.
func Failed(w http.ResponseWriter, err error, message string) {
	if fields, ok := asValidation(err); ok {
		Invalid(w, fields)
		return
	}
	zap.L().Error(message, zap.Error(err))
	Error(w, http.StatusInternalServerError, message)
}

func asValidation(err error) (models.FieldErrors, bool) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	var notSaved *saving.NotSavedError
	if errors.As(err, &notSaved) {
		return notSaved.Fields, true
	}
	return nil, false
}
