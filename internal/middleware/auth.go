package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack-api/internal/auth"
	"github.com/tasktrack/tasktrack-api/internal/constants"
	apierrors "github.com/tasktrack/tasktrack-api/internal/errors"
	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
)

// RequireAuth resolves the acting user from a bearer token or, failing
// that, from the session. Requests with neither are rejected with 401.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				apierrors.Unauthorized(c, "")
				return
			}

			actor, err := tokens.Parse(token)
			if err != nil {
				apierrors.Unauthorized(c, "")
				return
			}

			c.Set(constants.ContextKeyActor, actor)
			c.Next()
			return
		}

		actor, ok := sessionActor(sessions.Default(c))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

func sessionActor(session sessions.Session) (lifecycle.Actor, bool) {
	userID, _ := session.Get(constants.SessionKeyUserID).(string)
	role, _ := session.Get(constants.SessionKeyRole).(string)
	if userID == "" || !models.Role(role).Valid() {
		return lifecycle.Actor{}, false
	}
	return lifecycle.Actor{ID: userID, Role: models.Role(role)}, true
}

// GetActor retrieves the authenticated actor from context
func GetActor(c *gin.Context) (lifecycle.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return lifecycle.Actor{}, false
	}
	actor, ok := value.(lifecycle.Actor)
	return actor, ok
}

// RequireRole rejects authenticated actors that do not hold role.
// It must run after RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		if actor.Role != role {
			apierrors.Forbidden(c, "User role "+string(actor.Role)+" is not authorized to access this route")
			return
		}

		c.Next()
	}
}
