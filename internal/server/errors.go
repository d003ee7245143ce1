package server

import (
	"net/http"

	apperrors "github.com/hide0128/finder/internal/errors"
)

// HandleError writes err as the standard error body.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}
