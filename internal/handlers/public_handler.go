package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartq/backend/internal/services"
)

// PublicHandler serves the unauthenticated browse endpoints.
type PublicHandler struct {
	salonService  *services.SalonService
	reviewService *services.ReviewService
}

func NewPublicHandler(salonService *services.SalonService, reviewService *services.ReviewService) *PublicHandler {
	return &PublicHandler{
		salonService:  salonService,
		reviewService: reviewService,
	}
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// SearchSalons lists salons filtered by free-text query and salon type
func (h *PublicHandler) SearchSalons(c *gin.Context) {
	page, limit := pagination(c)

	salons, total, err := h.salonService.SearchSalons(
		c.Query("q"), c.Query("type"), (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search salons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salons": salons,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetSalon returns a salon with its services and photos
func (h *PublicHandler) GetSalon(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	salon, err := h.salonService.GetSalonByID(salonID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"salon": salon})
}

// GetSalonServices lists a salon's catalog
func (h *PublicHandler) GetSalonServices(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	services, err := h.salonService.GetServices(salonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetSalonReviews lists a salon's reviews, newest first
func (h *PublicHandler) GetSalonReviews(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	page, limit := pagination(c)

	reviews, total, err := h.reviewService.GetSalonReviews(salonID, (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetCurrentOffers lists currently valid offers, optionally scoped to a salon
func (h *PublicHandler) GetCurrentOffers(c *gin.Context) {
	var salonID *uuid.UUID
	if raw := c.Query("salon_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
			return
		}
		salonID = &id
	}

	offers, err := h.salonService.GetCurrentOffers(salonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load offers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}
