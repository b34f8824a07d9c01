package api

import (
	"context"
	"net/http"

	"github.com/gamestore/store-admin/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Find loads the record named by the {id} path value. When it cannot, the
// response has been written and ok is false.
func Find[T any](w http.ResponseWriter, r *http.Request, resource string, get func(ctx context.Context, id uint) (*T, error)) (*T, bool) {
	id, ok := ID(r)
	if !ok {
		NotFound(w, resource)
		return nil, false
	}
	record, err := get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(w, resource)
			return nil, false
		}
		zap.L().Error("load "+resource, zap.Uint("id", id), zap.Error(err))
		Error(w, http.StatusInternalServerError, "failed to load "+resource)
		return nil, false
	}
	return record, true
}

// Attributes decodes the body and keeps the allowed keys under root.
// Malformed bodies get a 400 response and ok is false.
func Attributes(w http.ResponseWriter, r *http.Request, root string, allowed ...string) (map[string]interface{}, bool) {
	body, err := DecodeBody(r)
	if err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	return Permit(body, root, allowed...), true
}
