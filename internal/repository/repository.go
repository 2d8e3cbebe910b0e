package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwner returns all of an owner's tasks ordered by position,
	// with steps preloaded
	FindByOwner(ownerID uint64) ([]models.Task, error)

	// FindByIDAndOwner finds a task by ID scoped to its owner, with
	// optional preloading. Ownership mismatch is indistinguishable from
	// absence.
	FindByIDAndOwner(id, ownerID uint64, preload ...string) (*models.Task, error)

	// FindByID finds a task by ID regardless of owner
	FindByID(id uint64) (*models.Task, error)

	// MaxPosition returns the highest position among an owner's tasks,
	// 0 when the owner has none
	MaxPosition(ownerID uint64) (int, error)

	// UpdatePositions assigns position = index+1 to each task in ids,
	// in one transaction
	UpdatePositions(ids []uint64) error

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task together with its steps and attachment rows
	Delete(id uint64) error
}

// StepRepository defines the interface for step data access
type StepRepository interface {
	// Create creates a new step
	Create(step *models.Step) error

	// FindByID finds a step by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Step, error)

	// FindIDsByTask returns the IDs of all steps belonging to a task
	FindIDsByTask(taskID uint64) ([]uint64, error)

	// MaxPosition returns the highest position among a task's steps,
	// 0 when the task has none
	MaxPosition(taskID uint64) (int, error)

	// UpdatePositions assigns position = index+1 to each step in ids,
	// in one transaction
	UpdatePositions(ids []uint64) error

	// Update updates a step
	Update(step *models.Step) error

	// Delete soft deletes a step
	Delete(id uint64) error
}

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	// CreateBatch persists a batch of attachments in one operation
	CreateBatch(attachments []models.Attachment) error

	// FindByID finds an attachment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Attachment, error)

	// MaxPosition returns the highest position among a task's attachments,
	// 0 when the task has none
	MaxPosition(taskID uint64) (int, error)

	// Update updates an attachment
	Update(attachment *models.Attachment) error

	// Delete soft deletes an attachment
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
