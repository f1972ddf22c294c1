package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack-api/internal/auth"
	"github.com/tasktrack/tasktrack-api/internal/constants"
	"github.com/tasktrack/tasktrack-api/internal/dto"
	apierrors "github.com/tasktrack/tasktrack-api/internal/errors"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

// Register creates a new user and signs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string      `json:"name" binding:"required"`
		Email    string      `json:"email" binding:"required,email"`
		Password string      `json:"password" binding:"required"`
		Role     models.Role `json:"role"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.signIn(c, http.StatusCreated, user)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide an email and password")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.signIn(c, http.StatusOK, user)
}

// signIn stores the session and responds with a bearer token.
func (h *AuthHandler) signIn(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	session.Set(constants.SessionKeyRole, string(user.Role))
	if err := session.Save(); err != nil {
		respondAuthError(c, fmt.Errorf("failed to save session: %w", err))
		return
	}

	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    dto.ToUserDTO(*user),
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.ToUserDTO(*user),
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.InvalidField(c, "password", fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrNameRequired):
		apierrors.InvalidField(c, "name", err.Error())
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.InvalidField(c, "email", err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.InvalidField(c, "role", err.Error())
	case errors.Is(err, services.ErrAdminSignupDisabled):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "auth request failed",
			"path", c.FullPath(),
			"error", err,
		)
		apierrors.InternalError(c, "")
	}
}
