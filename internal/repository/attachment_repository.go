package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// CreateBatch persists a batch of attachments in one operation
func (r *GormAttachmentRepository) CreateBatch(attachments []models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.Create(&attachments).Error
}

// FindByID finds an attachment by ID with optional preloading
func (r *GormAttachmentRepository) FindByID(id uint64, preload ...string) (*models.Attachment, error) {
	var attachment models.Attachment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&attachment, id).Error; err != nil {
		return nil, err
	}

	return &attachment, nil
}

// MaxPosition returns the highest position among a task's attachments
func (r *GormAttachmentRepository) MaxPosition(taskID uint64) (int, error) {
	var max int
	err := r.db.Model(&models.Attachment{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// Update updates an attachment
func (r *GormAttachmentRepository) Update(attachment *models.Attachment) error {
	return r.db.Save(attachment).Error
}

// Delete soft deletes an attachment
func (r *GormAttachmentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Attachment{}, id).Error
}
