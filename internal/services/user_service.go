package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/config"
	"github.com/smartq/backend/internal/models"
	"github.com/smartq/backend/pkg/validation"
	"gorm.io/gorm"
)

type UserService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewUserService(db *gorm.DB, cfg *config.Config) *UserService {
	return &UserService{db: db, cfg: cfg}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the editable profile fields. Changing the phone
// number drops the phone_verified flag until the new number is re-verified.
func (s *UserService) UpdateProfile(userID uuid.UUID, updates map[string]interface{}) (*models.User, error) {
	allowedFields := map[string]bool{
		"name":                true,
		"phone":               true,
		"profile_picture_url": true,
	}

	filteredUpdates := make(map[string]interface{})
	for key, value := range updates {
		if allowedFields[key] {
			filteredUpdates[key] = value
		}
	}

	if len(filteredUpdates) == 0 {
		return nil, errors.New("no valid fields to update")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if phone, ok := filteredUpdates["phone"].(string); ok && phone != "" {
		formatted := validation.FormatPhoneNumber(phone, s.cfg.DefaultPhoneRegion)
		if !validation.ValidatePhoneNumber(formatted, s.cfg.DefaultPhoneRegion) {
			return nil, ErrInvalidDestination
		}
		filteredUpdates["phone"] = formatted
		if formatted != user.Phone {
			filteredUpdates["phone_verified"] = false
		}
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(filteredUpdates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("user not found")
	}

	return s.GetUserByID(userID)
}

// AddFavorite marks a salon as favorite for the user
func (s *UserService) AddFavorite(userID, salonID uuid.UUID) error {
	var salon models.Salon
	if err := s.db.First(&salon, salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("salon not found")
		}
		return err
	}

	fav := &models.Favorite{UserID: userID, SalonID: salonID}
	if err := s.db.FirstOrCreate(fav, fav).Error; err != nil {
		return err
	}
	return nil
}

// RemoveFavorite removes a salon from the user's favorites
func (s *UserService) RemoveFavorite(userID, salonID uuid.UUID) error {
	return s.db.Where("user_id = ? AND salon_id = ?", userID, salonID).Delete(&models.Favorite{}).Error
}

// GetFavoriteSalons lists the user's favorite salons
func (s *UserService) GetFavoriteSalons(userID uuid.UUID) ([]*models.Salon, error) {
	var salons []*models.Salon
	err := s.db.
		Joins("JOIN favorites ON favorites.salon_id = salons.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&salons).Error
	if err != nil {
		return nil, err
	}
	return salons, nil
}
