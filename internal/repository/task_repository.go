package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByOwner returns all of an owner's tasks ordered by position, with
// steps preloaded so callers can derive completion counts without extra
// queries.
func (r *GormTaskRepository) FindByOwner(ownerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Steps").
		Where("owner_id = ?", ownerID).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByIDAndOwner finds a task by ID scoped to its owner
func (r *GormTaskRepository) FindByIDAndOwner(id, ownerID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByID finds a task by ID regardless of owner
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// MaxPosition returns the highest position among an owner's tasks
func (r *GormTaskRepository) MaxPosition(ownerID uint64) (int, error) {
	var max int
	err := r.db.Model(&models.Task{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// UpdatePositions assigns position = index+1 to each task in ids. The whole
// batch is applied in one transaction; ids omitted from the slice keep their
// previous positions.
func (r *GormTaskRepository) UpdatePositions(ids []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.Task{}).
				Where("id = ?", id).
				Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task together with its steps and attachment rows.
// Stored attachment blobs are not touched here.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Step{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
