// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"legacyvault/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errMethodNotAllowed = common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")

// ErrorHandler turns errors attached with c.Error into the JSON error shape
// and fills in bodies for unmatched routes.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() && len(c.Errors) == 0 {
			return
		}

		if ginErr := c.Errors.Last(); ginErr != nil {
			if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
				c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
				return
			}
			logger.Error("Unhandled application error",
				zap.Error(ginErr.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDContextKey)),
			)
			details := "An unexpected error occurred."
			if gin.Mode() == gin.DebugMode {
				details = ginErr.Err.Error()
			}
			genericError := common.ErrInternalServer.WithDetails(details)
			c.AbortWithStatusJSON(genericError.StatusCode, genericError)
			return
		}

		switch c.Writer.Status() {
		case http.StatusNotFound:
			notFoundErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(notFoundErr.StatusCode, notFoundErr)
		case http.StatusMethodNotAllowed:
			c.AbortWithStatusJSON(errMethodNotAllowed.StatusCode, errMethodNotAllowed)
		}
	}
}
