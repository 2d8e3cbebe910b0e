package services

import (
	"errors"
	"fmt"

	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrStepNotFound = errors.New("step not found")
	// ErrForeignStep is returned when a reorder names a step that does not
	// belong to the addressed task.
	ErrForeignStep = errors.New("step does not belong to the task")
)

// StepService handles step business logic. Steps are always addressed
// through their parent task's owner: the caller must own the task, and the
// step paths report that mismatch as forbidden rather than not found.
type StepService struct {
	stepRepo repository.StepRepository
	taskRepo repository.TaskRepository
}

// NewStepService creates a new StepService
func NewStepService(stepRepo repository.StepRepository, taskRepo repository.TaskRepository) *StepService {
	return &StepService{
		stepRepo: stepRepo,
		taskRepo: taskRepo,
	}
}

// UpdateStepInput represents input for editing a step.
type UpdateStepInput struct {
	Description string
	Done        bool
}

// CreateStep appends a step to a task. The task must exist (ErrTaskNotFound)
// and belong to the actor (ErrForeignTask).
func (s *StepService) CreateStep(actorID, taskID uint64, description string, done bool) (*models.Step, error) {
	if err := s.requireOwnedTask(actorID, taskID); err != nil {
		return nil, err
	}

	max, err := s.stepRepo.MaxPosition(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max position: %w", err)
	}

	step := &models.Step{
		TaskID:      taskID,
		Description: description,
		Done:        done,
		Position:    max + 1,
	}

	if err := s.stepRepo.Create(step); err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}

	return step, nil
}

// UpdateStep edits a step's description and completion flag.
func (s *StepService) UpdateStep(actorID, stepID uint64, input UpdateStepInput) (*models.Step, error) {
	step, err := s.findOwnedStep(actorID, stepID)
	if err != nil {
		return nil, err
	}

	step.Description = input.Description
	step.Done = input.Done

	if err := s.stepRepo.Update(step); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	return step, nil
}

// DeleteStep removes a step.
func (s *StepService) DeleteStep(actorID, stepID uint64) error {
	step, err := s.findOwnedStep(actorID, stepID)
	if err != nil {
		return err
	}

	if err := s.stepRepo.Delete(step.ID); err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}

	return nil
}

// ReorderSteps assigns position = index+1 to each step in orderedIDs. Ids
// not belonging to the task reject the whole request; a subset renumbers
// only the named steps, same as task reordering.
func (s *StepService) ReorderSteps(actorID, taskID uint64, orderedIDs []uint64) error {
	if err := s.requireOwnedTask(actorID, taskID); err != nil {
		return err
	}

	stepIDs, err := s.stepRepo.FindIDsByTask(taskID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}

	belongs := make(map[uint64]bool, len(stepIDs))
	for _, id := range stepIDs {
		belongs[id] = true
	}

	for _, id := range orderedIDs {
		if !belongs[id] {
			return ErrForeignStep
		}
	}

	if err := s.stepRepo.UpdatePositions(orderedIDs); err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}

	return nil
}

func (s *StepService) requireOwnedTask(actorID, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrForeignTask
	}

	return nil
}

func (s *StepService) findOwnedStep(actorID, stepID uint64) (*models.Step, error) {
	step, err := s.stepRepo.FindByID(stepID, "Task")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStepNotFound
		}
		return nil, fmt.Errorf("failed to find step: %w", err)
	}

	if step.Task.OwnerID != actorID {
		return nil, ErrForeignTask
	}

	return step, nil
}
