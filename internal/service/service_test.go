package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/repository"
)

// newTestDB opens an isolated in-memory sqlite database. A single
// connection keeps every gorm session on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}, &model.Counter{}))
	return db
}

func newTestTaskService(t *testing.T, db *gorm.DB) *TaskService {
	t.Helper()
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewCounterRepository(db),
		NewTaskPolicy(),
		nil,
		zap.NewNop(),
	)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test User",
		Email:    email,
		Password: "irrelevant",
		Role:     model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
