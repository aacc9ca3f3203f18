package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nursery-tracker/internal/models"
)

// respondError maps a domain error to its HTTP status and the standard
// error body. Anything unrecognized is a plain 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal error"

	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
		kind = "not found"
	case errors.Is(err, models.ErrDuplicateID):
		status = http.StatusConflict
		kind = "duplicate identity"
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
		kind = "validation error"
	case errors.Is(err, models.ErrBlobStore):
		status = http.StatusBadGateway
		kind = "blob store error"
	case errors.Is(err, models.ErrStorage):
		kind = "storage error"
	}

	c.JSON(status, models.ErrorResponse{
		Error:   kind,
		Message: err.Error(),
	})
}
