package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/models"
	"gorm.io/gorm"
)

type QueueService struct {
	db  *gorm.DB
	sms SMSSender
}

func NewQueueService(db *gorm.DB, sms SMSSender) *QueueService {
	return &QueueService{db: db, sms: sms}
}

// DashboardStats summarizes a salon's day for the owner dashboard.
type DashboardStats struct {
	TodayCustomers int64                `json:"today_customers"`
	TodayRevenue   float64              `json:"today_revenue"`
	CurrentQueue   int64                `json:"current_queue"`
	AvgWaitMinutes float64              `json:"avg_wait_minutes"`
	RatingAvg      float64              `json:"rating_avg"`
	CompletedToday []*models.QueueEntry `json:"completed_today"`
}

// JoinQueue adds a customer to a salon's queue with the selected services.
// A customer can hold at most one active entry per salon.
func (s *QueueService) JoinQueue(customerID, salonID uuid.UUID, serviceIDs []uuid.UUID, notes string) (*models.QueueEntry, error) {
	if len(serviceIDs) == 0 {
		return nil, errors.New("at least one service must be selected")
	}

	var salon models.Salon
	if err := s.db.First(&salon, salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("salon not found")
		}
		return nil, err
	}

	var services []models.SalonService
	if err := s.db.Where("id IN ? AND salon_id = ?", serviceIDs, salonID).Find(&services).Error; err != nil {
		return nil, err
	}
	if len(services) != len(serviceIDs) {
		return nil, errors.New("one or more services do not belong to this salon")
	}

	var totalPrice float64
	var totalDuration int
	for _, svc := range services {
		totalPrice += svc.Price
		totalDuration += svc.Duration
	}

	var active int64
	if err := s.db.Model(&models.QueueEntry{}).
		Where("customer_id = ? AND salon_id = ? AND status IN ?", customerID, salonID,
			[]string{models.QueueStatusWaiting, models.QueueStatusInProgress}).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, errors.New("already in this salon's queue")
	}

	entry := &models.QueueEntry{
		CustomerID:    customerID,
		SalonID:       salonID,
		Status:        models.QueueStatusWaiting,
		TotalPrice:    totalPrice,
		TotalDuration: totalDuration,
		Notes:         notes,
		JoinedAt:      time.Now(),
	}
	entry.SetServiceIDs(serviceIDs)

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var ahead []models.QueueEntry
	if err := tx.Where("salon_id = ? AND status IN ?", salonID,
		[]string{models.QueueStatusWaiting, models.QueueStatusInProgress}).
		Order("joined_at ASC").Find(&ahead).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	entry.Position = len(ahead) + 1
	for _, e := range ahead {
		entry.EstimatedWaitMinutes += e.TotalDuration
	}

	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return entry, nil
}

// LeaveQueue removes the customer's own waiting entry from the queue.
func (s *QueueService) LeaveQueue(customerID, entryID uuid.UUID) error {
	var entry models.QueueEntry
	if err := s.db.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("queue entry not found")
		}
		return err
	}
	if entry.CustomerID != customerID {
		return errors.New("queue entry not owned by user")
	}
	if entry.Status != models.QueueStatusWaiting {
		return errors.New("only waiting entries can be left")
	}

	tx := s.db.Begin()
	if err := tx.Delete(&entry).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := s.recomputePositions(tx, entry.SalonID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// queueTransitions lists the legal status changes an owner can apply.
var queueTransitions = map[string][]string{
	models.QueueStatusWaiting:    {models.QueueStatusInProgress, models.QueueStatusNoShow},
	models.QueueStatusInProgress: {models.QueueStatusCompleted},
}

// UpdateStatus applies an owner-driven status transition and notifies the
// customer by SMS when possible. Notification failures are logged, never
// surfaced: the queue state change already happened.
func (s *QueueService) UpdateStatus(ownerID, entryID uuid.UUID, newStatus string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := s.db.Preload("Customer").Preload("Salon").First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("queue entry not found")
		}
		return nil, err
	}
	if entry.Salon.OwnerID != ownerID {
		return nil, errors.New("salon not owned by user")
	}

	allowed := false
	for _, next := range queueTransitions[entry.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot transition from %s to %s", entry.Status, newStatus)
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case models.QueueStatusInProgress:
		updates["started_at"] = &now
	case models.QueueStatusCompleted:
		updates["completed_at"] = &now
	case models.QueueStatusNoShow:
		updates["no_show_at"] = &now
	}

	tx := s.db.Begin()
	if err := tx.Model(&entry).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.recomputePositions(tx, entry.SalonID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	entry.Status = newStatus
	s.notifyStatusChange(&entry)

	return &entry, nil
}

// notifyStatusChange sends a best-effort queue update SMS to verified phones.
func (s *QueueService) notifyStatusChange(entry *models.QueueEntry) {
	if s.sms == nil || entry.Customer.Phone == "" || !entry.Customer.PhoneVerified {
		return
	}
	status := strings.ReplaceAll(entry.Status, "_", " ")
	body := fmt.Sprintf("SmartQ Update: Your status at %s is now %q.", entry.Salon.Name, status)
	if _, err := s.sms.SendSMS(entry.Customer.Phone, body); err != nil {
		log.Printf("Queue update SMS to %s failed: %v", entry.Customer.Phone, err)
	}
}

// recomputePositions renumbers active entries and refreshes wait estimates
// after the queue shrinks or advances.
func (s *QueueService) recomputePositions(tx *gorm.DB, salonID uuid.UUID) error {
	var active []models.QueueEntry
	if err := tx.Where("salon_id = ? AND status IN ?", salonID,
		[]string{models.QueueStatusWaiting, models.QueueStatusInProgress}).
		Order("joined_at ASC").Find(&active).Error; err != nil {
		return err
	}

	waitAhead := 0
	for i := range active {
		entry := &active[i]
		updates := map[string]interface{}{
			"position":               i + 1,
			"estimated_wait_minutes": waitAhead,
		}
		if err := tx.Model(&models.QueueEntry{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
			return err
		}
		waitAhead += entry.TotalDuration
	}
	return nil
}

// GetSalonQueue returns the live queue for an owned salon, ordered by position.
func (s *QueueService) GetSalonQueue(salonID, ownerID uuid.UUID) ([]*models.QueueEntry, error) {
	var salon models.Salon
	if err := s.db.First(&salon, salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("salon not found")
		}
		return nil, err
	}
	if salon.OwnerID != ownerID {
		return nil, errors.New("salon not owned by user")
	}

	var entries []*models.QueueEntry
	err := s.db.Preload("Customer").
		Where("salon_id = ? AND status IN ?", salonID,
			[]string{models.QueueStatusWaiting, models.QueueStatusInProgress}).
		Order("position ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetActiveEntry returns the customer's current queue entry, if any.
func (s *QueueService) GetActiveEntry(customerID uuid.UUID) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := s.db.Preload("Salon").
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{models.QueueStatusWaiting, models.QueueStatusInProgress}).
		Order("joined_at DESC").First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("no active queue entry")
		}
		return nil, err
	}
	return &entry, nil
}

// GetHistory returns the customer's past queue entries, newest first.
func (s *QueueService) GetHistory(customerID uuid.UUID, offset, limit int) ([]*models.QueueEntry, int64, error) {
	var entries []*models.QueueEntry
	var total int64

	tx := s.db.Model(&models.QueueEntry{}).
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{models.QueueStatusCompleted, models.QueueStatusNoShow})

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Preload("Salon").
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{models.QueueStatusCompleted, models.QueueStatusNoShow}).
		Offset(offset).Limit(limit).Order("joined_at DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetDashboardStats aggregates today's numbers for an owned salon.
func (s *QueueService) GetDashboardStats(salonID, ownerID uuid.UUID) (*DashboardStats, error) {
	var salon models.Salon
	if err := s.db.First(&salon, salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("salon not found")
		}
		return nil, err
	}
	if salon.OwnerID != ownerID {
		return nil, errors.New("salon not owned by user")
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &DashboardStats{RatingAvg: salon.RatingAvg}

	if err := s.db.Model(&models.QueueEntry{}).
		Where("salon_id = ? AND status = ? AND completed_at >= ?", salonID, models.QueueStatusCompleted, startOfDay).
		Count(&stats.TodayCustomers).Error; err != nil {
		return nil, err
	}

	var revenue struct{ Total float64 }
	if err := s.db.Model(&models.QueueEntry{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("salon_id = ? AND status = ? AND completed_at >= ?", salonID, models.QueueStatusCompleted, startOfDay).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TodayRevenue = revenue.Total

	if err := s.db.Model(&models.QueueEntry{}).
		Where("salon_id = ? AND status IN ?", salonID,
			[]string{models.QueueStatusWaiting, models.QueueStatusInProgress}).
		Count(&stats.CurrentQueue).Error; err != nil {
		return nil, err
	}

	var avgWait struct{ Avg float64 }
	if err := s.db.Model(&models.QueueEntry{}).
		Select("COALESCE(AVG(estimated_wait_minutes), 0) AS avg").
		Where("salon_id = ? AND status = ?", salonID, models.QueueStatusWaiting).
		Scan(&avgWait).Error; err != nil {
		return nil, err
	}
	stats.AvgWaitMinutes = avgWait.Avg

	if err := s.db.Preload("Customer").
		Where("salon_id = ? AND status = ? AND completed_at >= ?", salonID, models.QueueStatusCompleted, startOfDay).
		Order("completed_at DESC").Limit(20).
		Find(&stats.CompletedToday).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
