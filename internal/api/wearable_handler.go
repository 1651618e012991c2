package api

import (
	"errors"
	"fmt"
	"net/http"

	"runai/coach-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WearableHandler holds the wearable sync service dependency.
type WearableHandler struct {
	wearableService service.WearableService
}

// NewWearableHandler creates a new WearableHandler.
func NewWearableHandler(wearableService service.WearableService) *WearableHandler {
	return &WearableHandler{wearableService: wearableService}
}

// --- Request/Response Structs ---

type SyncRequest struct {
	DeviceType string                   `json:"deviceType" binding:"required"`
	Samples    []service.WearableSample `json:"samples" binding:"required,min=1"`
}

// --- Handler Methods ---

// Sync bulk-stores device samples for the authenticated user.
func (h *WearableHandler) Sync(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.wearableService.Sync(c.Request.Context(), userID, req.DeviceType, req.Samples)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to sync wearable data.")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetLatest returns the most recent sample per device/data type pair.
func (h *WearableHandler) GetLatest(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	data, err := h.wearableService.GetLatest(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve wearable data.")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *WearableHandler) userID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "User not authenticated")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}
