package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	catalogUC "periodical/internal/usecase/catalog"
)

// errBadRequest marks request bodies that cannot be decoded.
var errBadRequest = errors.New("invalid request body")

// decodeJSON decodes exactly one JSON object from r's body into v.
// Unknown fields are rejected.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body must not exceed %d bytes", errBadRequest, maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: body is required", errBadRequest)
		}
		return fmt.Errorf("%w: %s", errBadRequest, err.Error())
	}
	if dec.More() {
		return fmt.Errorf("%w: body must contain a single JSON object", errBadRequest)
	}
	return nil
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	return catalogUC.ParseID(r.PathValue("id"))
}

// bodyID parses an ID carried in a request body field.
func bodyID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", errBadRequest, field)
	}
	id, err := catalogUC.ParseID(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", field, err)
	}
	return id, nil
}
