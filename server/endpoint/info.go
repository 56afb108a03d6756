package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/appkit/version"
)

var startTime = time.Now()

type infoResponse struct {
	version.Info
	Uptime string `json:"uptime"`
}

// Info reports build information and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, infoResponse{
			Info:   version.Get(serviceName),
			Uptime: time.Since(startTime).Round(time.Second).String(),
		})
	}
}
