package handlers

import (
	"net/http"

	"aircare/utils"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health with the latest dependency snapshot.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	healthy := status.Mongo
	for _, ok := range status.Redis {
		healthy = healthy && ok
	}
	code := http.StatusOK
	if !healthy && !status.CheckedAt.IsZero() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"healthy": healthy, "status": status})
}
