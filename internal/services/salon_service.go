package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/models"
	"gorm.io/gorm"
)

type SalonService struct {
	db *gorm.DB
}

func NewSalonService(db *gorm.DB) *SalonService {
	return &SalonService{db: db}
}

// CreateSalon creates a salon owned by the given user
func (s *SalonService) CreateSalon(ownerID uuid.UUID, salon *models.Salon) (*models.Salon, error) {
	if salon.SalonType != models.SalonTypeMen && salon.SalonType != models.SalonTypeWomen && salon.SalonType != models.SalonTypeUnisex {
		return nil, errors.New("salon_type must be men, women or unisex")
	}
	salon.OwnerID = ownerID
	if err := s.db.Create(salon).Error; err != nil {
		return nil, err
	}
	return salon, nil
}

// GetSalonByID retrieves a salon with its services and photos
func (s *SalonService) GetSalonByID(salonID uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	err := s.db.Preload("Services").Preload("Photos").First(&salon, salonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("salon not found")
		}
		return nil, err
	}
	return &salon, nil
}

// GetOwnedSalon retrieves a salon and verifies ownership
func (s *SalonService) GetOwnedSalon(salonID, ownerID uuid.UUID) (*models.Salon, error) {
	salon, err := s.GetSalonByID(salonID)
	if err != nil {
		return nil, err
	}
	if salon.OwnerID != ownerID {
		return nil, errors.New("salon not owned by user")
	}
	return salon, nil
}

// GetSalonsByOwner lists all salons owned by a user
func (s *SalonService) GetSalonsByOwner(ownerID uuid.UUID) ([]*models.Salon, error) {
	var salons []*models.Salon
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&salons).Error; err != nil {
		return nil, err
	}
	return salons, nil
}

// SearchSalons lists salons filtered by free-text query and salon type
func (s *SalonService) SearchSalons(query, salonType string, offset, limit int) ([]*models.Salon, int64, error) {
	var salons []*models.Salon
	var total int64

	tx := s.db.Model(&models.Salon{})
	if query != "" {
		searchQuery := "%" + query + "%"
		tx = tx.Where("name ILIKE ? OR address ILIKE ?", searchQuery, searchQuery)
	}
	if salonType != "" {
		tx = tx.Where("salon_type = ?", salonType)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := tx.Preload("Services").Preload("Photos").
		Offset(offset).Limit(limit).Order("rating_avg DESC, created_at DESC").
		Find(&salons).Error; err != nil {
		return nil, 0, err
	}

	return salons, total, nil
}

// UpdateSalon updates salon fields after an ownership check
func (s *SalonService) UpdateSalon(salonID, ownerID uuid.UUID, updates map[string]interface{}) (*models.Salon, error) {
	if _, err := s.GetOwnedSalon(salonID, ownerID); err != nil {
		return nil, err
	}

	allowedFields := map[string]bool{
		"name":            true,
		"description":     true,
		"address":         true,
		"latitude":        true,
		"longitude":       true,
		"operating_hours": true,
		"salon_type":      true,
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

	if err := s.db.Model(&models.Salon{}).Where("id = ?", salonID).Updates(filteredUpdates).Error; err != nil {
		return nil, err
	}
	return s.GetSalonByID(salonID)
}

// DeleteSalon removes a salon and its catalog after an ownership check
func (s *SalonService) DeleteSalon(salonID, ownerID uuid.UUID) error {
	if _, err := s.GetOwnedSalon(salonID, ownerID); err != nil {
		return err
	}

	tx := s.db.Begin()
	if err := tx.Where("salon_id = ?", salonID).Delete(&models.SalonService{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("salon_id = ?", salonID).Delete(&models.SalonPhoto{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("salon_id = ?", salonID).Delete(&models.Favorite{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Salon{}, salonID).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// CreateService adds a catalog entry to an owned salon
func (s *SalonService) CreateService(salonID, ownerID uuid.UUID, svc *models.SalonService) (*models.SalonService, error) {
	if _, err := s.GetOwnedSalon(salonID, ownerID); err != nil {
		return nil, err
	}
	if svc.Price < 0 || svc.Duration <= 0 {
		return nil, errors.New("service price must be non-negative and duration positive")
	}
	svc.SalonID = salonID
	if err := s.db.Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

// GetServices lists the catalog of a salon
func (s *SalonService) GetServices(salonID uuid.UUID) ([]*models.SalonService, error) {
	var services []*models.SalonService
	if err := s.db.Where("salon_id = ?", salonID).Order("category ASC, name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateService updates a catalog entry after an ownership check
func (s *SalonService) UpdateService(serviceID, ownerID uuid.UUID, updates map[string]interface{}) (*models.SalonService, error) {
	var svc models.SalonService
	if err := s.db.First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("service not found")
		}
		return nil, err
	}
	if _, err := s.GetOwnedSalon(svc.SalonID, ownerID); err != nil {
		return nil, err
	}

	allowedFields := map[string]bool{
		"name":        true,
		"description": true,
		"price":       true,
		"duration":    true,
		"category":    true,
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

	if err := s.db.Model(&svc).Updates(filteredUpdates).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// DeleteService removes a catalog entry after an ownership check
func (s *SalonService) DeleteService(serviceID, ownerID uuid.UUID) error {
	var svc models.SalonService
	if err := s.db.First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("service not found")
		}
		return err
	}
	if _, err := s.GetOwnedSalon(svc.SalonID, ownerID); err != nil {
		return err
	}
	return s.db.Delete(&svc).Error
}

// AddPhoto attaches a photo URL to an owned salon
func (s *SalonService) AddPhoto(salonID, ownerID uuid.UUID, url, caption string) (*models.SalonPhoto, error) {
	if _, err := s.GetOwnedSalon(salonID, ownerID); err != nil {
		return nil, err
	}
	photo := &models.SalonPhoto{SalonID: salonID, URL: url, Caption: caption}
	if err := s.db.Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// DeletePhoto removes a salon photo after an ownership check
func (s *SalonService) DeletePhoto(photoID, ownerID uuid.UUID) error {
	var photo models.SalonPhoto
	if err := s.db.First(&photo, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("photo not found")
		}
		return err
	}
	if _, err := s.GetOwnedSalon(photo.SalonID, ownerID); err != nil {
		return err
	}
	return s.db.Delete(&photo).Error
}

// CreateOffer creates a discount offer for an owned salon
func (s *SalonService) CreateOffer(salonID, ownerID uuid.UUID, offer *models.Offer) (*models.Offer, error) {
	if _, err := s.GetOwnedSalon(salonID, ownerID); err != nil {
		return nil, err
	}
	if offer.DiscountType != models.DiscountPercentage && offer.DiscountType != models.DiscountFlat {
		return nil, errors.New("discount_type must be percentage or flat")
	}
	if offer.ValidTo.Before(offer.ValidFrom) {
		return nil, errors.New("valid_to must be after valid_from")
	}
	offer.SalonID = &salonID
	if err := s.db.Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// GetCurrentOffers lists offers valid right now, optionally scoped to a salon
func (s *SalonService) GetCurrentOffers(salonID *uuid.UUID) ([]*models.Offer, error) {
	now := time.Now()
	tx := s.db.Where("active = ? AND valid_from <= ? AND valid_to >= ?", true, now, now)
	if salonID != nil {
		tx = tx.Where("salon_id = ? OR salon_id IS NULL", *salonID)
	}

	var offers []*models.Offer
	if err := tx.Order("valid_to ASC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// DeactivateOffer switches an offer off after an ownership check
func (s *SalonService) DeactivateOffer(offerID, ownerID uuid.UUID) error {
	var offer models.Offer
	if err := s.db.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("offer not found")
		}
		return err
	}
	if offer.SalonID == nil {
		return errors.New("offer not owned by user")
	}
	if _, err := s.GetOwnedSalon(*offer.SalonID, ownerID); err != nil {
		return err
	}
	return s.db.Model(&offer).Update("active", false).Error
}
