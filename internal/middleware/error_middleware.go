package middleware

import (
	"errors"
	"net/http"

	"gigmarket/internal/transport/httpdto"
	gigmarket_errors "gigmarket/pkg/errors"
	"gigmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler owns the mapping from service errors to HTTP responses.
// Handlers record failures with c.Error and return; anything outside the
// known error set becomes a 500 with a generic body so internals never
// leak to clients.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		switch {
		case errors.Is(err, gigmarket_errors.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		case errors.Is(err, gigmarket_errors.ErrForbidden):
			c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		case errors.Is(err, gigmarket_errors.ErrNotFound):
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
		case errors.Is(err, gigmarket_errors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "INVALID_TRANSITION"))
		case errors.Is(err, gigmarket_errors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
		default:
			if l != nil {
				l.ErrorCtx(c.Request.Context(), "request failed", zap.Error(err))
			}
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
		}
	}
}
