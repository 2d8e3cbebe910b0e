package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormStepRepository is a GORM implementation of StepRepository
type GormStepRepository struct {
	db *gorm.DB
}

// NewStepRepository creates a new StepRepository
func NewStepRepository(db *gorm.DB) StepRepository {
	return &GormStepRepository{db: db}
}

// Create creates a new step
func (r *GormStepRepository) Create(step *models.Step) error {
	return r.db.Create(step).Error
}

// FindByID finds a step by ID with optional preloading
func (r *GormStepRepository) FindByID(id uint64, preload ...string) (*models.Step, error) {
	var step models.Step
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&step, id).Error; err != nil {
		return nil, err
	}

	return &step, nil
}

// FindIDsByTask returns the IDs of all steps belonging to a task
func (r *GormStepRepository) FindIDsByTask(taskID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.Step{}).
		Where("task_id = ?", taskID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// MaxPosition returns the highest position among a task's steps
func (r *GormStepRepository) MaxPosition(taskID uint64) (int, error) {
	var max int
	err := r.db.Model(&models.Step{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// UpdatePositions assigns position = index+1 to each step in ids
func (r *GormStepRepository) UpdatePositions(ids []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.Step{}).
				Where("id = ?", id).
				Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates a step
func (r *GormStepRepository) Update(step *models.Step) error {
	return r.db.Save(step).Error
}

// Delete soft deletes a step
func (r *GormStepRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Step{}, id).Error
}
