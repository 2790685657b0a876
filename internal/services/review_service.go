package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/models"
	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// SubmitReview creates or updates the customer's review of a salon. Only
// customers with a completed visit may review; the salon's rating average is
// recomputed in the same transaction.
func (s *ReviewService) SubmitReview(customerID, salonID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	var salon models.Salon
	if err := s.db.First(&salon, salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("salon not found")
		}
		return nil, err
	}

	var visits int64
	if err := s.db.Model(&models.QueueEntry{}).
		Where("customer_id = ? AND salon_id = ? AND status = ?", customerID, salonID, models.QueueStatusCompleted).
		Count(&visits).Error; err != nil {
		return nil, err
	}
	if visits == 0 {
		return nil, errors.New("only customers with a completed visit can review")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var review models.Review
	err := tx.Where("salon_id = ? AND customer_id = ?", salonID, customerID).First(&review).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.Review{SalonID: salonID, CustomerID: customerID, Rating: rating, Comment: comment}
		if err := tx.Create(&review).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	case err != nil:
		tx.Rollback()
		return nil, err
	default:
		review.Rating = rating
		review.Comment = comment
		if err := tx.Save(&review).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	var avg struct{ Avg float64 }
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg").
		Where("salon_id = ?", salonID).
		Scan(&avg).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&models.Salon{}).Where("id = ?", salonID).Update("rating_avg", avg.Avg).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// GetSalonReviews lists a salon's reviews, newest first
func (s *ReviewService) GetSalonReviews(salonID uuid.UUID, offset, limit int) ([]*models.Review, int64, error) {
	var reviews []*models.Review
	var total int64

	if err := s.db.Model(&models.Review{}).Where("salon_id = ?", salonID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Preload("Customer").
		Where("salon_id = ?", salonID).
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// DeleteReview removes the customer's own review and recomputes the average
func (s *ReviewService) DeleteReview(customerID, reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("review not found")
		}
		return err
	}
	if review.CustomerID != customerID {
		return errors.New("review not owned by user")
	}

	tx := s.db.Begin()
	if err := tx.Delete(&review).Error; err != nil {
		tx.Rollback()
		return err
	}

	var avg struct{ Avg float64 }
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg").
		Where("salon_id = ?", review.SalonID).
		Scan(&avg).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.Salon{}).Where("id = ?", review.SalonID).Update("rating_avg", avg.Avg).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
