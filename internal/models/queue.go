package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Queue entry statuses. waiting and in_progress entries count as active;
// completed and no_show are terminal.
const (
	QueueStatusWaiting    = "waiting"
	QueueStatusInProgress = "in_progress"
	QueueStatusCompleted  = "completed"
	QueueStatusNoShow     = "no_show"
)

type QueueEntry struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	SalonID              uuid.UUID  `gorm:"type:uuid;index;not null" json:"salon_id"`
	ServiceIDs           string     `gorm:"type:text;not null" json:"-"` // comma-separated uuids
	Status               string     `gorm:"not null;default:'waiting';index" json:"status"`
	Position             int        `json:"position"`
	EstimatedWaitMinutes int        `json:"estimated_wait_minutes"`
	TotalPrice           float64    `json:"total_price"`
	TotalDuration        int        `json:"total_duration"` // minutes
	Notes                string     `gorm:"type:text" json:"notes,omitempty"`
	JoinedAt             time.Time  `gorm:"not null" json:"joined_at"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	NoShowAt             *time.Time `json:"no_show_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Relations
	Customer User  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Salon    Salon `gorm:"foreignKey:SalonID" json:"salon,omitempty"`
}

func (q *QueueEntry) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the entry still occupies a queue slot.
func (q *QueueEntry) IsActive() bool {
	return q.Status == QueueStatusWaiting || q.Status == QueueStatusInProgress
}

// ServiceIDList parses the serialized service id list.
func (q *QueueEntry) ServiceIDList() []uuid.UUID {
	if q.ServiceIDs == "" {
		return nil
	}
	parts := strings.Split(q.ServiceIDs, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		if id, err := uuid.Parse(strings.TrimSpace(p)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetServiceIDs serializes the service id list.
func (q *QueueEntry) SetServiceIDs(ids []uuid.UUID) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	q.ServiceIDs = strings.Join(parts, ",")
}
