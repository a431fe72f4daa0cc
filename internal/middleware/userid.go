package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/apierror"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/logger"
)

// UserIDHeader identifies the acting user. Authentication itself lives
// with an upstream collaborator (gateway/session layer); this service
// only requires that the header is present.
const UserIDHeader = "X-User-ID"

// RequireUserID rejects requests without a user id and stores the id on
// both the gin and request contexts.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			requestID, _ := c.Get("request_id")
			id, _ := requestID.(string)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(id))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
