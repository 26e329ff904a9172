package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListServices handles GET /api/services.
func (h *FlowHandler) ListServices(c *gin.Context) {
	services, err := h.Catalogue.ListServices(c.Request.Context())
	if err != nil {
		getLogger(c).Error("ListServices: failed to fetch services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to fetch services",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, services)
}
