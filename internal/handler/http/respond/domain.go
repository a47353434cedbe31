package respond

import (
	"errors"
	"net/http"

	"periodical/internal/domain/entity"
	"periodical/internal/usecase/catalog"
)

// StatusFor maps a catalog error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidationFailed), errors.Is(err, catalog.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrTypeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrImmutableField):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes err with the status from StatusFor. Typed entity errors
// also report the field they concern.
func DomainError(w http.ResponseWriter, err error) {
	code := StatusFor(err)

	var (
		verr *entity.ValidationError
		terr *entity.TypeMismatchError
		ierr *entity.ImmutableFieldError
	)
	switch {
	case errors.As(err, &verr):
		FieldError(w, code, verr.Field, err)
	case errors.As(err, &terr):
		FieldError(w, code, terr.Field, err)
	case errors.As(err, &ierr):
		FieldError(w, code, ierr.Field, err)
	default:
		SafeError(w, code, err)
	}
}
