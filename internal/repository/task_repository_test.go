package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fibu_trainer_backend/internal/model"
)

func bookingTask(id uint, isPublic bool, createdBy string) model.Task {
	return model.Task{
		ID:   id,
		Type: model.TaskBooking,
		Content: model.TaskContent{
			Scenario: "Barverkauf",
			Bookings: []model.Booking{{Soll: "Kasse", Haben: "Umsatzerlöse", Betrag: 100}},
		},
		IsPublic:  isPublic,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
}

func TestTaskRepositoryList(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	require.NoError(t, repo.Create(&model.Task{ID: 1, Type: model.TaskBooking, IsPublic: true, CreatedBy: model.CreatedByNA}))
	require.NoError(t, repo.Create(&model.Task{ID: 2, Type: model.TaskText, IsPublic: false, CreatedBy: "a@example.com"}))
	require.NoError(t, repo.Create(&model.Task{ID: 3, Type: model.TaskBooking, IsPublic: false, CreatedBy: "b@example.com"}))

	t.Run("unrestricted returns all ordered by id", func(t *testing.T) {
		tasks, err := repo.List(nil, "")
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, uint(1), tasks[0].ID)
		assert.Equal(t, uint(3), tasks[2].ID)
	})

	t.Run("visibility restriction keeps public and own", func(t *testing.T) {
		tasks, err := repo.List(nil, "a@example.com")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, uint(1), tasks[0].ID)
		assert.Equal(t, uint(2), tasks[1].ID)
	})

	t.Run("type filter narrows", func(t *testing.T) {
		tasks, err := repo.List([]model.TaskType{model.TaskText}, "")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, uint(2), tasks[0].ID)
	})
}

func TestTaskRepositoryInsertMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	inserted, err := repo.InsertMissing([]model.Task{
		bookingTask(1, true, model.CreatedByNA),
		bookingTask(2, true, model.CreatedByNA),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Overlapping batch only inserts the new id and never overwrites.
	replacement := bookingTask(2, false, "x@example.com")
	inserted, err = repo.InsertMissing([]model.Task{replacement, bookingTask(3, true, model.CreatedByNA)})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	var stored model.Task
	require.NoError(t, db.First(&stored, 2).Error)
	assert.True(t, stored.IsPublic)
	assert.Equal(t, model.CreatedByNA, stored.CreatedBy)
}

func TestTaskRepositoryDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	require.NoError(t, repo.Create(&model.Task{ID: 1, Type: model.TaskBooking}))
	require.NoError(t, repo.Delete(1))
	assert.ErrorIs(t, repo.Delete(1), gorm.ErrRecordNotFound)
}

func TestUserRepositoryUpdateLocked(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{Name: "U", Email: "u@example.com", Password: "x", Role: model.RoleUser}))

	err := repo.UpdateLocked("u@example.com", func(u *model.User) error {
		u.ExamsTaken = 3
		return nil
	})
	require.NoError(t, err)

	user, err := repo.FindByEmail("u@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, user.ExamsTaken)

	assert.ErrorIs(t,
		repo.UpdateLocked("missing@example.com", func(u *model.User) error { return nil }),
		gorm.ErrRecordNotFound)
}
