package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartq/backend/internal/services"
	"github.com/smartq/backend/pkg/validation"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReview creates or updates the customer's review of a salon
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	salonID, err := uuid.Parse(c.Param("salonId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salon ID"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.SubmitReview(userID, salonID, req.Rating, validation.SanitizeString(req.Comment))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review saved", "review": review})
}

// DeleteReview removes the customer's own review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := h.reviewService.DeleteReview(userID, reviewID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
