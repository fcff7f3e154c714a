package handler

import (
	"net/http"

	"gigmarket/internal/services"
	"gigmarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Presign hands out a direct-to-bucket upload URL for a gig image.
func (h *UploadHandler) Presign(c *gin.Context) {
	var req httpdto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	result, err := h.service.PresignGigImage(c.Request.Context(), userID, services.PresignInput{
		Filename:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.FileSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}
