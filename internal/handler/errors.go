package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError records err on the gin context; the error middleware maps
// it to an HTTP response once the handler returns.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}
