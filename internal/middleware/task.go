package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/constants"
	apierrors "github.com/tasktrack/tasktrack-api/internal/errors"
)

// RequireTaskID checks that the :id parameter is a well-formed task id
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		c.Set(constants.ContextKeyTaskID, id.String())
		c.Next()
	}
}

// GetTaskID retrieves the task ID validated by RequireTaskID
func GetTaskID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyTaskID)
}
