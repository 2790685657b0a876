package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueServiceJoinQueue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQueueService(db, &fakeSMSSender{})

	owner := createTestUser(t, db, models.RoleSalonOwner)
	salon := createTestSalon(t, db, owner.ID)
	haircut := createTestService(t, db, salon.ID, 25, 30)
	shave := createTestService(t, db, salon.ID, 10, 15)

	t.Run("first customer gets position 1 with no wait", func(t *testing.T) {
		customer := createTestUser(t, db, models.RoleCustomer)

		entry, err := svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{haircut.ID, shave.ID}, "")
		require.NoError(t, err)
		assert.Equal(t, 1, entry.Position)
		assert.Equal(t, 0, entry.EstimatedWaitMinutes)
		assert.Equal(t, 35.0, entry.TotalPrice)
		assert.Equal(t, 45, entry.TotalDuration)
		assert.Equal(t, models.QueueStatusWaiting, entry.Status)
	})

	t.Run("second customer waits behind the first", func(t *testing.T) {
		customer := createTestUser(t, db, models.RoleCustomer)

		entry, err := svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
		require.NoError(t, err)
		assert.Equal(t, 2, entry.Position)
		assert.Equal(t, 45, entry.EstimatedWaitMinutes)
	})

	t.Run("rejects a second active entry for the same customer", func(t *testing.T) {
		customer := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
		require.NoError(t, err)

		_, err = svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{shave.ID}, "")
		assert.Error(t, err)
	})

	t.Run("rejects services from another salon", func(t *testing.T) {
		otherSalon := createTestSalon(t, db, owner.ID)
		foreign := createTestService(t, db, otherSalon.ID, 50, 60)
		customer := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{foreign.ID}, "")
		assert.Error(t, err)
	})

	t.Run("rejects an empty service selection", func(t *testing.T) {
		customer := createTestUser(t, db, models.RoleCustomer)
		_, err := svc.JoinQueue(customer.ID, salon.ID, nil, "")
		assert.Error(t, err)
	})
}

func TestQueueServiceLeaveQueue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQueueService(db, &fakeSMSSender{})

	owner := createTestUser(t, db, models.RoleSalonOwner)
	salon := createTestSalon(t, db, owner.ID)
	haircut := createTestService(t, db, salon.ID, 25, 30)

	first := createTestUser(t, db, models.RoleCustomer)
	second := createTestUser(t, db, models.RoleCustomer)

	firstEntry, err := svc.JoinQueue(first.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
	require.NoError(t, err)
	secondEntry, err := svc.JoinQueue(second.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
	require.NoError(t, err)
	require.Equal(t, 2, secondEntry.Position)

	t.Run("only the owner of the entry may leave", func(t *testing.T) {
		err := svc.LeaveQueue(second.ID, firstEntry.ID)
		assert.Error(t, err)
	})

	t.Run("leaving moves everyone behind up", func(t *testing.T) {
		require.NoError(t, svc.LeaveQueue(first.ID, firstEntry.ID))

		var moved models.QueueEntry
		require.NoError(t, db.First(&moved, secondEntry.ID).Error)
		assert.Equal(t, 1, moved.Position)
		assert.Equal(t, 0, moved.EstimatedWaitMinutes)
	})
}

func TestQueueServiceUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	sms := &fakeSMSSender{}
	svc := NewQueueService(db, sms)

	owner := createTestUser(t, db, models.RoleSalonOwner)
	salon := createTestSalon(t, db, owner.ID)
	haircut := createTestService(t, db, salon.ID, 25, 30)

	customer := createTestUser(t, db, models.RoleCustomer)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", customer.ID).Update("phone_verified", true).Error)

	entry, err := svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
	require.NoError(t, err)

	t.Run("rejects a transition by a non-owner", func(t *testing.T) {
		stranger := createTestUser(t, db, models.RoleSalonOwner)
		_, err := svc.UpdateStatus(stranger.ID, entry.ID, models.QueueStatusInProgress)
		assert.Error(t, err)
	})

	t.Run("waiting cannot jump straight to completed", func(t *testing.T) {
		_, err := svc.UpdateStatus(owner.ID, entry.ID, models.QueueStatusCompleted)
		assert.Error(t, err)
	})

	t.Run("waiting to in_progress sets started_at and notifies", func(t *testing.T) {
		updated, err := svc.UpdateStatus(owner.ID, entry.ID, models.QueueStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.QueueStatusInProgress, updated.Status)

		var stored models.QueueEntry
		require.NoError(t, db.First(&stored, entry.ID).Error)
		assert.NotNil(t, stored.StartedAt)

		require.Len(t, sms.to, 1)
		assert.Equal(t, customer.Phone, sms.to[0])
	})

	t.Run("in_progress to completed sets completed_at", func(t *testing.T) {
		updated, err := svc.UpdateStatus(owner.ID, entry.ID, models.QueueStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.QueueStatusCompleted, updated.Status)

		var stored models.QueueEntry
		require.NoError(t, db.First(&stored, entry.ID).Error)
		assert.NotNil(t, stored.CompletedAt)
	})

	t.Run("completed entries accept no further transitions", func(t *testing.T) {
		_, err := svc.UpdateStatus(owner.ID, entry.ID, models.QueueStatusNoShow)
		assert.Error(t, err)
	})

	t.Run("no_show only from waiting", func(t *testing.T) {
		other := createTestUser(t, db, models.RoleCustomer)
		otherEntry, err := svc.JoinQueue(other.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(owner.ID, otherEntry.ID, models.QueueStatusNoShow)
		require.NoError(t, err)
		assert.Equal(t, models.QueueStatusNoShow, updated.Status)
	})
}

func TestQueueServiceGetActiveEntryAndHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQueueService(db, &fakeSMSSender{})

	owner := createTestUser(t, db, models.RoleSalonOwner)
	salon := createTestSalon(t, db, owner.ID)
	haircut := createTestService(t, db, salon.ID, 25, 30)
	customer := createTestUser(t, db, models.RoleCustomer)

	_, err := svc.GetActiveEntry(customer.ID)
	assert.Error(t, err)

	entry, err := svc.JoinQueue(customer.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
	require.NoError(t, err)

	active, err := svc.GetActiveEntry(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, active.ID)

	_, err = svc.UpdateStatus(owner.ID, entry.ID, models.QueueStatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(owner.ID, entry.ID, models.QueueStatusCompleted)
	require.NoError(t, err)

	_, err = svc.GetActiveEntry(customer.ID)
	assert.Error(t, err)

	history, total, err := svc.GetHistory(customer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, history, 1)
	assert.Equal(t, models.QueueStatusCompleted, history[0].Status)
}

func TestQueueServiceDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQueueService(db, &fakeSMSSender{})

	owner := createTestUser(t, db, models.RoleSalonOwner)
	salon := createTestSalon(t, db, owner.ID)
	haircut := createTestService(t, db, salon.ID, 25, 30)

	done := createTestUser(t, db, models.RoleCustomer)
	doneEntry, err := svc.JoinQueue(done.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(owner.ID, doneEntry.ID, models.QueueStatusInProgress)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(owner.ID, doneEntry.ID, models.QueueStatusCompleted)
	require.NoError(t, err)

	waiting := createTestUser(t, db, models.RoleCustomer)
	_, err = svc.JoinQueue(waiting.ID, salon.ID, []uuid.UUID{haircut.ID}, "")
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats(salon.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TodayCustomers)
	assert.Equal(t, 25.0, stats.TodayRevenue)
	assert.Equal(t, int64(1), stats.CurrentQueue)
	require.Len(t, stats.CompletedToday, 1)

	_, err = svc.GetDashboardStats(salon.ID, waiting.ID)
	assert.Error(t, err)
}
