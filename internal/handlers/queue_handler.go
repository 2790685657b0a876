package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartq/backend/internal/services"
	"github.com/smartq/backend/pkg/validation"
)

type QueueHandler struct {
	queueService *services.QueueService
}

func NewQueueHandler(queueService *services.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

// JoinQueue adds the authenticated customer to a salon's queue
func (h *QueueHandler) JoinQueue(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req struct {
		SalonID    string   `json:"salon_id" binding:"required,uuid"`
		ServiceIDs []string `json:"service_ids" binding:"required,min=1"`
		Notes      string   `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	salonID, err := uuid.Parse(req.SalonID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
			return
		}
		serviceIDs = append(serviceIDs, id)
	}

	entry, err := h.queueService.JoinQueue(userID, salonID, serviceIDs, validation.SanitizeString(req.Notes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Joined the queue", "entry": entry})
}

// LeaveQueue removes the customer's waiting entry
func (h *QueueHandler) LeaveQueue(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.queueService.LeaveQueue(userID, entryID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left the queue"})
}

// GetActiveEntry returns the customer's current queue entry with live
// position and wait estimate
func (h *QueueHandler) GetActiveEntry(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	entry, err := h.queueService.GetActiveEntry(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry":       entry,
		"service_ids": entry.ServiceIDList(),
	})
}

// GetSalonQueue returns the live queue for an owned salon
func (h *QueueHandler) GetSalonQueue(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	entries, err := h.queueService.GetSalonQueue(salonID, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// UpdateStatus applies an owner-driven status transition to a queue entry
func (h *QueueHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=in_progress completed no_show"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.queueService.UpdateStatus(userID, entryID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "entry": entry})
}
