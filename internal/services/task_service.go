package services

import (
	"errors"
	"fmt"

	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrForeignTask is returned when an operation names a task the caller
	// does not own and the path distinguishes ownership from absence.
	ErrForeignTask = errors.New("task does not belong to the caller")
)

// TaskService handles task business logic. Every operation takes the
// caller's identity explicitly; nothing is read from ambient request state.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// UpdateTaskInput represents input for editing a task. Only title and
// description are mutable through this path; position is never touched.
type UpdateTaskInput struct {
	Title       string
	Description string
}

// ListTasks returns all tasks owned by the caller, ascending by position,
// with steps loaded.
func (s *TaskService) ListTasks(ownerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.FindByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task with its steps. A task owned by someone
// else is reported as not found, same as an absent one.
func (s *TaskService) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, ownerID, "Steps")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task at the end of the owner's list. The title is
// persisted as submitted; the client is responsible for non-empty input.
func (s *TaskService) CreateTask(ownerID uint64, title string) (*models.Task, error) {
	max, err := s.taskRepo.MaxPosition(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max position: %w", err)
	}

	task := &models.Task{
		Title:    title,
		OwnerID:  ownerID,
		Position: max + 1,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ReorderTasks assigns position = index+1 to each task in orderedIDs. Any
// id not owned by the caller rejects the whole request with ErrForeignTask
// and mutates nothing. orderedIDs may be a subset of the caller's tasks;
// tasks omitted from it keep their previous positions, which can leave the
// owner's set with duplicate positions.
func (s *TaskService) ReorderTasks(ownerID uint64, orderedIDs []uint64) error {
	tasks, err := s.taskRepo.FindByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	owned := make(map[uint64]bool, len(tasks))
	for _, task := range tasks {
		owned[task.ID] = true
	}

	for _, id := range orderedIDs {
		if !owned[id] {
			return ErrForeignTask
		}
	}

	if err := s.taskRepo.UpdatePositions(orderedIDs); err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}

	return nil
}

// UpdateTask edits a task's title and description. Ownership mismatch is
// indistinguishable from absence.
func (s *TaskService) UpdateTask(ownerID, taskID uint64, input UpdateTaskInput) error {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	task.Title = input.Title
	task.Description = input.Description

	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// DeleteTask removes a task together with its steps and attachment rows.
// Ownership mismatch is indistinguishable from absence.
func (s *TaskService) DeleteTask(ownerID, taskID uint64) error {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
