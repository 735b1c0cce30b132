package httperrors

import (
	"errors"
	"net/http"

	"github.com/yourname/fileshare_lite/internal/models"
)

// Write переводит доменную ошибку в HTTP-статус. В теле ответа только текст
// статуса, подробности остаются в логах.
func Write(w http.ResponseWriter, err error) {
	http.Error(w, http.StatusText(Status(err)), Status(err))
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
