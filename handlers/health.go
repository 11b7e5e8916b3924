package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/tools"
)

// HealthCheck returns server health status
// @Summary Health check
// @Description Check if the server is running and healthy
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse "Server is healthy"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ToolsHandler lists the registered assistant tools
type ToolsHandler struct {
	registry *tools.Registry
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// GetTools returns available assistant tools
// @Summary List available tools
// @Description Get a list of all registered assistant tools and their input schemas
// @Tags Tools
// @Produce json
// @Success 200 {object} map[string]interface{} "List of tools"
// @Router /tools [get]
func (h *ToolsHandler) GetTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tools": h.registry.Definitions(),
	})
}
