package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onlyvolunteer/backend/auth"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/orchestrator"
)

// AssistantHandler handles AI assistant requests
type AssistantHandler struct {
	orch *orchestrator.Orchestrator
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(orch *orchestrator.Orchestrator) *AssistantHandler {
	return &AssistantHandler{orch: orch}
}

// Chat handles one assistant turn: routing, tool dispatch, and formatting
// @Summary Talk to the AI assistant
// @Description Send a message or page context to the assistant. Routes to the matching tool when one applies, otherwise answers conversationally.
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AssistantRequest true "Assistant request"
// @Success 200 {object} models.AssistantResponse "Assistant reply"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 429 {object} models.ErrorResponse "Rate limited"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /assistant [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req models.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	// Authenticated callers always act as themselves.
	if claims := auth.GetAuthClaims(c); claims != nil {
		req.UserID = claims.UserID
	}

	resp, err := h.orch.Handle(c.Request.Context(), &req)
	if err != nil {
		var rateErr *orchestrator.RateLimitError
		switch {
		case errors.As(err, &rateErr):
			c.Header("Retry-After", strconv.Itoa(rateErr.RetryAfterSeconds))
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   resp.Text,
				Code:    http.StatusTooManyRequests,
				Details: err.Error(),
			})
		case errors.Is(err, orchestrator.ErrMissingUserID):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "userId is required",
				Code:  http.StatusBadRequest,
			})
		default:
			log.Printf("[AssistantHandler] Handle failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: "Assistant request failed",
				Code:  http.StatusInternalServerError,
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
