// Package server provides the HTTP REST API for the college recommender.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/ranking"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		validatorErrs validator.ValidationErrors
		factorErr     *ranking.InvalidFactorError
		fieldErr      *programs.FieldError
		groupErr      *programs.GroupError
		dataErr       *programs.DataError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &validatorErrs), errors.As(err, &factorErr):
		return http.StatusBadRequest
	case errors.As(err, &fieldErr), errors.As(err, &groupErr):
		return http.StatusNotFound
	case errors.Is(err, programs.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.As(err, &dataErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage renders validator errors the way clients see them; other
// errors keep their own text.
func errorMessage(err error) string {
	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) && len(validatorErrs) > 0 {
		ve := validatorErrs[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Namespace(), ve.Tag())
	}
	return err.Error()
}
