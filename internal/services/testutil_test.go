package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/config"
	"github.com/smartq/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.SessionSecret = "test-session-secret"
	cfg.OTPExpiry = 5 * time.Minute
	cfg.DefaultPhoneRegion = "1"
	cfg.BcryptCost = 4
	return cfg
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test User",
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Phone:    "+15551234567",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSalon(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Salon {
	t.Helper()

	salon := &models.Salon{
		OwnerID:   ownerID,
		Name:      "Test Salon",
		Address:   "1 Main St",
		SalonType: models.SalonTypeUnisex,
	}
	require.NoError(t, db.Create(salon).Error)
	return salon
}

func createTestService(t *testing.T, db *gorm.DB, salonID uuid.UUID, price float64, duration int) *models.SalonService {
	t.Helper()

	svc := &models.SalonService{
		SalonID:  salonID,
		Name:     "Haircut",
		Price:    price,
		Duration: duration,
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

// fakeSMSSender records sent messages and optionally fails.
type fakeSMSSender struct {
	to   []string
	body []string
	err  error
}

func (f *fakeSMSSender) SendSMS(to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return "SM" + uuid.NewString(), nil
}

// fakeEmailSender records verification codes and optionally fails.
type fakeEmailSender struct {
	to    []string
	codes []string
	err   error
}

func (f *fakeEmailSender) SendVerificationCode(to, name, code string, expiryMinutes int) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.codes = append(f.codes, code)
	return nil
}
