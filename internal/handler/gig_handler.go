package handler

import (
	"net/http"

	"gigmarket/internal/services"
	"gigmarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type GigHandler struct {
	service *services.GigService
}

func NewGigHandler(service *services.GigService) *GigHandler {
	return &GigHandler{service: service}
}

func (h *GigHandler) Create(c *gin.Context) {
	var req httpdto.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	gig, err := h.service.Create(c.Request.Context(), userID, services.CreateGigInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gig))
}

func (h *GigHandler) Get(c *gin.Context) {
	gigID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid gig id", "INVALID_REQUEST"))
		return
	}

	gig, err := h.service.Get(c.Request.Context(), gigID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gig))
}

func (h *GigHandler) List(c *gin.Context) {
	var req httpdto.ListGigsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	gigs, err := h.service.List(c.Request.Context(), req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gigs))
}
