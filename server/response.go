package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/applesignin/errors"
)

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// structured body are derived from its code; otherwise a generic 500 is sent.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(StatusFor(appErr.Code), appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// StatusFor maps an error code onto an HTTP status.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidArgument, apperrors.ErrCodeMalformedRedirect:
		return http.StatusBadRequest
	case apperrors.ErrCodeSecurityValidation:
		return http.StatusForbidden
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeNotInitialized:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
