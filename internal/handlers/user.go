package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack-api/internal/dto"
	"github.com/tasktrack/tasktrack-api/internal/services"
)

// UserHandler serves the user directory used when assigning tasks.
type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// ListUsers returns every registered user. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondAuthError(c, err)
		return
	}

	items := make([]dto.UserDTO, len(users))
	for i, user := range users {
		items[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}
