package api

import (
	"fmt"
	"net/http"

	"runai/coach-server/internal/domain"
	"runai/coach-server/internal/service"

	"github.com/gin-gonic/gin"
)

// CoachHandler holds the coach chat service dependency.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- Request/Response Structs ---

// ChatRequest mirrors the payload the web client sends for one chat turn.
// Profile and workout context are optional and caller-supplied; nothing is
// loaded from storage.
type ChatRequest struct {
	Message        string                `json:"message" binding:"required"`
	CoachStyle     string                `json:"coachStyle"`
	UserProfile    *service.ChatProfile  `json:"userProfile"`
	RecentWorkouts []service.ChatWorkout `json:"recentWorkouts"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// --- Handler Methods ---

// Chat forwards the message to the completion API with a style-conditioned
// system prompt. No state is retained between calls; on failure the client
// shows a generic error and lets the user resend.
func (h *CoachHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	reply, err := h.coachService.Chat(c.Request.Context(), service.ChatInput{
		Message:        req.Message,
		CoachStyle:     domain.CoachStyle(req.CoachStyle),
		UserProfile:    req.UserProfile,
		RecentWorkouts: req.RecentWorkouts,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: reply})
}
