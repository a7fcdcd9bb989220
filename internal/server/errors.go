package server

import (
	"net/http"

	apperrors "github.com/handlelens/handlelens/internal/errors"
)

// HandleError is the central responder for all server errors.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}
