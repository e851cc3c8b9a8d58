package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/dto"
)

// respondError maps a service error onto the HTTP status and uniform
// envelope. Unrecognized errors become an opaque 500; their detail
// stays in the logs.
func respondError(c *gin.Context, err error, heading string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Error(err.Error(), heading, http.StatusNotFound))
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrEmptySource):
		c.JSON(http.StatusBadRequest, dto.Error(err.Error(), heading, http.StatusBadRequest))
	case errors.Is(err, apperrors.ErrAlreadyInvoiced), errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, dto.Error(err.Error(), heading, http.StatusConflict))
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.Error(err.Error(), heading, http.StatusUnauthorized))
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Error(err.Error(), heading, http.StatusForbidden))
	default:
		c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong", heading, http.StatusInternalServerError))
	}
}

// respondBindError turns a binding failure into a 400 with readable
// field messages when the failure is a validation one.
func respondBindError(c *gin.Context, err error, heading string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldErrorMessage(fe))
		}
		c.JSON(http.StatusBadRequest, dto.Error(strings.Join(msgs, "; "), heading, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusBadRequest, dto.Error("Invalid request format: "+err.Error(), heading, http.StatusBadRequest))
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "uuid":
		return fe.Field() + " must be a valid uuid"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
