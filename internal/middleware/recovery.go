package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery converts panics into the standard 500 envelope.
// The panic value is echoed back only when development is true.
func Recovery(logger *logrus.Logger, development bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		LoggerFrom(c, logger).
			WithField("panic", recovered).
			WithField("path", c.Request.URL.Path).
			Error("panic recovered")

		body := gin.H{"message": "Something went wrong!"}
		if development {
			body["error"] = fmt.Sprint(recovered)
		} else {
			body["error"] = "Internal server error"
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}
