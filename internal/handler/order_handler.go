package handler

import (
	"net/http"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
	"gigmarket/internal/services"
	"gigmarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *services.OrderService
	status *services.StatusService
}

func NewOrderHandler(orders *services.OrderService, status *services.StatusService) *OrderHandler {
	return &OrderHandler{orders: orders, status: status}
}

// Create records a purchase of the gig in the path.
func (h *OrderHandler) Create(c *gin.Context) {
	gigID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid gig id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	order, err := h.orders.CreateFromGig(c.Request.Context(), gigID, userID, services.PurchaseInput{
		Signature:    req.Signature,
		BuyerAddress: req.BuyerAddress,
		Amount:       req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.NewOrderDTO(order)))
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	order, err := h.orders.Get(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewOrderDTO(order)))
}

func (h *OrderHandler) List(c *gin.Context) {
	var req httpdto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("role must be buyer or seller", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	orders, err := h.orders.List(c.Request.Context(), userID, repository.Party(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]httpdto.OrderDTO, len(orders))
	for i, o := range orders {
		out[i] = httpdto.NewOrderDTO(o)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(out))
}

// UpdateStatus drives the order state machine.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	order, err := h.status.AttemptTransition(c.Request.Context(), orderID, domain.Status(req.Status), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewOrderDTO(order)))
}

// Timeline returns the derived activity feed for an order.
func (h *OrderHandler) Timeline(c *gin.Context) {
	orderID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid order id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	timeline, err := h.orders.Timeline(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(timeline))
}
