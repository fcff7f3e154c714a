package handler

import (
	"net/http"

	"gigmarket/internal/services"
	"gigmarket/internal/transport/httpdto"
	"gigmarket/internal/viewers"

	"github.com/gin-gonic/gin"
)

type ViewerHandler struct {
	registry *viewers.Registry
}

func NewViewerHandler(registry *viewers.Registry) *ViewerHandler {
	return &ViewerHandler{registry: registry}
}

// Set marks the caller as viewing (or no longer viewing) an order. The
// registry is advisory, so this always succeeds for well-formed input.
func (h *ViewerHandler) Set(c *gin.Context) {
	var req httpdto.SetViewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	orderID, err := parseUUID(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order_id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	h.registry.SetActive(userID, orderID, *req.Active)

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ViewerStateResponse{
		OrderID: orderID.String(),
		Active:  *req.Active,
	}))
}

// Get reports whether a user is currently viewing an order.
func (h *ViewerHandler) Get(c *gin.Context) {
	orderID, err := parseUUID(c.Query("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order_id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err = parseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user_id", "INVALID_REQUEST"))
			return
		}
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ViewerStateResponse{
		OrderID: orderID.String(),
		Active:  h.registry.IsActive(userID, orderID),
	}))
}
