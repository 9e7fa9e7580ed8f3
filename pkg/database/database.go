package database

import (
	"fmt"
	"log"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate creates the schema and seeds the task id counter. Seeding
// starts at the current maximum task id so that a database predating
// the counter never hands out a colliding id.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.Counter{},
	)
	if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.Counter{}).Where("name = ?", model.CounterTaskID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		var maxID uint64
		db.Model(&model.Task{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID)
		if err := db.Create(&model.Counter{Name: model.CounterTaskID, Value: maxID}).Error; err != nil {
			return err
		}
	}

	return nil
}
