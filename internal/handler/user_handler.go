package handler

import (
	"net/http"

	"gigmarket/internal/services"
	"gigmarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewUserHandler(auth *services.AuthService, users *services.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// Me upserts and returns the caller's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	u, err := h.auth.EnsureProfile(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(u))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(u))
}
