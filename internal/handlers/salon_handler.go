package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartq/backend/internal/models"
	"github.com/smartq/backend/internal/services"
)

// SalonHandler serves the owner-facing salon management endpoints.
type SalonHandler struct {
	salonService *services.SalonService
	queueService *services.QueueService
	qrService    *services.QRService
}

func NewSalonHandler(salonService *services.SalonService, queueService *services.QueueService, qrService *services.QRService) *SalonHandler {
	return &SalonHandler{
		salonService: salonService,
		queueService: queueService,
		qrService:    qrService,
	}
}

// CreateSalon creates a salon owned by the authenticated user
func (h *SalonHandler) CreateSalon(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req struct {
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		Address        string  `json:"address" binding:"required"`
		Latitude       float64 `json:"latitude"`
		Longitude      float64 `json:"longitude"`
		OperatingHours string  `json:"operating_hours"`
		SalonType      string  `json:"salon_type" binding:"required,oneof=men women unisex"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	salon := &models.Salon{
		Name:           req.Name,
		Description:    req.Description,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OperatingHours: req.OperatingHours,
		SalonType:      req.SalonType,
	}

	created, err := h.salonService.CreateSalon(userID, salon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Salon created", "salon": created})
}

// GetOwnedSalons lists the authenticated owner's salons
func (h *SalonHandler) GetOwnedSalons(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salons, err := h.salonService.GetSalonsByOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load salons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"salons": salons})
}

// UpdateSalon updates salon fields
func (h *SalonHandler) UpdateSalon(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	salon, err := h.salonService.UpdateSalon(salonID, userID, updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Salon updated", "salon": salon})
}

// DeleteSalon removes a salon and its catalog
func (h *SalonHandler) DeleteSalon(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	if err := h.salonService.DeleteSalon(salonID, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Salon deleted"})
}

// CreateService adds a catalog entry
func (h *SalonHandler) CreateService(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required"`
		Duration    int     `json:"duration" binding:"required,min=1"`
		Category    string  `json:"category"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := &models.SalonService{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Category:    req.Category,
	}

	created, err := h.salonService.CreateService(salonID, userID, svc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Service created", "service": created})
}

// UpdateService updates a catalog entry
func (h *SalonHandler) UpdateService(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := h.salonService.UpdateService(serviceID, userID, updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service updated", "service": svc})
}

// DeleteService removes a catalog entry
func (h *SalonHandler) DeleteService(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	if err := h.salonService.DeleteService(serviceID, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}

// AddPhoto attaches a photo URL to a salon
func (h *SalonHandler) AddPhoto(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	var req struct {
		URL     string `json:"url" binding:"required,url"`
		Caption string `json:"caption"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := h.salonService.AddPhoto(salonID, userID, req.URL, req.Caption)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Photo added", "photo": photo})
}

// DeletePhoto removes a salon photo
func (h *SalonHandler) DeletePhoto(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	photoID, err := uuid.Parse(c.Param("photoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo ID"})
		return
	}

	if err := h.salonService.DeletePhoto(photoID, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}

// CreateOffer creates a discount offer
func (h *SalonHandler) CreateOffer(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	var offer models.Offer
	if err := c.ShouldBindJSON(&offer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.salonService.CreateOffer(salonID, userID, &offer)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Offer created", "offer": created})
}

// DeactivateOffer switches an offer off
func (h *SalonHandler) DeactivateOffer(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	offerID, err := uuid.Parse(c.Param("offerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID"})
		return
	}

	if err := h.salonService.DeactivateOffer(offerID, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deactivated"})
}

// GetDashboardStats aggregates today's numbers for the owner dashboard
func (h *SalonHandler) GetDashboardStats(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	stats, err := h.queueService.GetDashboardStats(salonID, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// DownloadQueuePoster streams the printable join-queue QR poster as PDF
func (h *SalonHandler) DownloadQueuePoster(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	salon, err := h.salonService.GetOwnedSalon(salonID, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	pdfBytes, err := h.qrService.GenerateJoinQueuePDF(salon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate poster"})
		return
	}

	filename := fmt.Sprintf("smartq-queue-poster-%s.pdf", salon.ID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
