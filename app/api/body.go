package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/pkg/errors"
)

const maxMemory = 32 << 20

// ErrInvalidBody is returned when the request body cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// DecodeBody reads a JSON, urlencoded or multipart body into a generic
// attribute tree. An empty body decodes to an empty map.
func DecodeBody(r *http.Request) (map[string]interface{}, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, errors.Wrap(ErrInvalidBody, err.Error())
		}
		return Nested(r.MultipartForm.Value), nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, errors.Wrap(ErrInvalidBody, err.Error())
		}
		return Nested(r.PostForm), nil
	}

	body := map[string]interface{}{}
	if r.Body == nil {
		return body, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(ErrInvalidBody, err.Error())
	}
	return body, nil
}

// Permit returns the allowed keys of body[root], or of body itself when
// the attributes are not wrapped in root.
func Permit(body map[string]interface{}, root string, allowed ...string) map[string]interface{} {
	src := body
	if wrapped, ok := body[root].(map[string]interface{}); ok {
		src = wrapped
	}
	out := make(map[string]interface{}, len(allowed))
	for _, key := range allowed {
		if v, ok := src[key]; ok {
			out[key] = v
		}
	}
	return out
}
