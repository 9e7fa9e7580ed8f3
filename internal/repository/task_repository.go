package repository

import (
	"fibu_trainer_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Create(task).Error
}

func (r *TaskRepository) FindByID(id uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.First(&task, id).Error
	return &task, err
}

func (r *TaskRepository) Update(task *model.Task) error {
	return r.DB.Save(task).Error
}

func (r *TaskRepository) Delete(id uint) error {
	result := r.DB.Delete(&model.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns tasks filtered by type and, for non-admin requesters,
// restricted to public tasks and the requester's own. Tag filtering
// happens in the service layer because tags live in a JSON column.
func (r *TaskRepository) List(types []model.TaskType, restrictTo string) ([]model.Task, error) {
	query := r.DB.Model(&model.Task{})
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}
	if restrictTo != "" {
		query = query.Where("is_public = ? OR created_by = ?", true, restrictTo)
	}

	var tasks []model.Task
	err := query.Order("id").Find(&tasks).Error
	return tasks, err
}

// FindExistingIDs returns which of the given ids are already present.
func (r *TaskRepository) FindExistingIDs(ids []uint) (map[uint]bool, error) {
	if len(ids) == 0 {
		return map[uint]bool{}, nil
	}

	var existing []uint
	err := r.DB.Model(&model.Task{}).Where("id IN ?", ids).Pluck("id", &existing).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(existing))
	for _, id := range existing {
		set[id] = true
	}
	return set, nil
}

// InsertMissing inserts only the tasks whose id is not already taken
// and reports how many actually went in. Re-importing an id that
// exists is a no-op for that item, never an overwrite.
func (r *TaskRepository) InsertMissing(tasks []model.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}

	ids := make([]uint, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	existing, err := r.FindExistingIDs(ids)
	if err != nil {
		return 0, err
	}

	var fresh []model.Task
	for _, t := range tasks {
		if !existing[t.ID] {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := r.DB.CreateInBatches(fresh, 100).Error; err != nil {
		return 0, err
	}
	return len(fresh), nil
}
