package repository

import (
	"fibu_trainer_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateLocked runs fn against the user row inside one transaction and
// persists the mutated row. This is the single read-modify-write the
// exam engine relies on: concurrent exam submissions for the same user
// serialize here instead of losing updates.
func (r *UserRepository) UpdateLocked(email string, fn func(u *model.User) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("email = ?", email)
		// sqlite has no FOR UPDATE; its writer lock serializes anyway.
		if tx.Dialector.Name() == "mysql" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var user model.User
		if err := q.First(&user).Error; err != nil {
			return err
		}

		if err := fn(&user); err != nil {
			return err
		}

		return tx.Save(&user).Error
	})
}
