package repository

import (
	"fmt"

	"fibu_trainer_backend/internal/model"

	"gorm.io/gorm"
)

type CounterRepository struct {
	DB *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{DB: db}
}

// ReserveBlock atomically advances the named counter by n and returns
// the first id of the reserved contiguous block. The single UPDATE
// holds the row lock until commit, so two concurrent callers can never
// observe the same block. Deriving ids from MAX(id)+1 is forbidden
// here: that is exactly the lost-update race this counter closes.
func (r *CounterRepository) ReserveBlock(name string, n int) (uint, error) {
	if n <= 0 {
		return 0, fmt.Errorf("block size must be positive, got %d", n)
	}

	var last uint64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Counter{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", n))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&model.Counter{Name: name, Value: uint64(n)}).Error; err != nil {
				// Lost the first-insert race: another caller created the
				// row between our UPDATE and the Create. Advance the now
				// existing row instead of failing on the duplicate key.
				retry := tx.Model(&model.Counter{}).
					Where("name = ?", name).
					UpdateColumn("value", gorm.Expr("value + ?", n))
				if retry.Error != nil {
					return retry.Error
				}
				if retry.RowsAffected == 0 {
					return err
				}
			} else {
				last = uint64(n)
				return nil
			}
		}

		// Reads back inside the same transaction, behind the row lock
		// the UPDATE took.
		var c model.Counter
		if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
			return err
		}
		last = c.Value
		return nil
	})
	if err != nil {
		return 0, err
	}

	return uint(last) - uint(n) + 1, nil
}

// EnsureAtLeast raises the named counter to min if it is below it.
// The CASE expression works on both mysql and sqlite.
func (r *CounterRepository) EnsureAtLeast(name string, min uint64) error {
	res := r.DB.Model(&model.Counter{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("CASE WHEN value < ? THEN ? ELSE value END", min, min))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := r.DB.Create(&model.Counter{Name: name, Value: min}).Error; err != nil {
			// Same first-insert race as ReserveBlock: fall back to
			// raising the row someone else just created.
			retry := r.DB.Model(&model.Counter{}).
				Where("name = ?", name).
				UpdateColumn("value", gorm.Expr("CASE WHEN value < ? THEN ? ELSE value END", min, min))
			if retry.Error != nil {
				return retry.Error
			}
			if retry.RowsAffected == 0 {
				return err
			}
		}
	}
	return nil
}

// NextTaskID reserves a single task id.
func (r *CounterRepository) NextTaskID() (uint, error) {
	return r.ReserveBlock(model.CounterTaskID, 1)
}

// ReserveTaskIDs reserves n consecutive task ids for bulk import.
func (r *CounterRepository) ReserveTaskIDs(n int) (uint, error) {
	return r.ReserveBlock(model.CounterTaskID, n)
}
