package handlers

import (
	"errors"
	"net/http"

	"github.com/pandupatra/math-tug-of-war/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyFull),
		errors.Is(err, services.ErrNotFinished),
		errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidName):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
