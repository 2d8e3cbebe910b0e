package dto

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// TaskSummaryDTO represents a task in list responses: identity, title and
// step completion counts only.
type TaskSummaryDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	StepsTotal int    `json:"steps_total"`
	StepsDone  int    `json:"steps_done"`
}

// StepDTO represents a step in API responses
type StepDTO struct {
	ID          uint64 `json:"id"`
	TaskID      uint64 `json:"task_id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Position    int    `json:"position"`
}

// TaskDetailDTO represents a single task with its full step list
type TaskDetailDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	Steps       []StepDTO `json:"steps"`
}

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToTaskSummaryDTO converts a Task with loaded steps to its list shape.
// Counts are computed over the loaded step collection.
func ToTaskSummaryDTO(task models.Task) TaskSummaryDTO {
	done := 0
	for _, step := range task.Steps {
		if step.Done {
			done++
		}
	}

	return TaskSummaryDTO{
		ID:         task.ID,
		Title:      task.Title,
		StepsTotal: len(task.Steps),
		StepsDone:  done,
	}
}

// ToTaskSummaryDTOs converts a slice of tasks to list shapes
func ToTaskSummaryDTOs(tasks []models.Task) []TaskSummaryDTO {
	summaries := make([]TaskSummaryDTO, len(tasks))
	for i, task := range tasks {
		summaries[i] = ToTaskSummaryDTO(task)
	}
	return summaries
}

// ToStepDTO converts a Step model to StepDTO
func ToStepDTO(step models.Step) StepDTO {
	return StepDTO{
		ID:          step.ID,
		TaskID:      step.TaskID,
		Description: step.Description,
		Done:        step.Done,
		Position:    step.Position,
	}
}

// ToTaskDetailDTO converts a Task with loaded steps to its detail shape.
// Steps are emitted in load order; no explicit ordering is applied here.
func ToTaskDetailDTO(task models.Task) TaskDetailDTO {
	steps := make([]StepDTO, len(task.Steps))
	for i, step := range task.Steps {
		steps[i] = ToStepDTO(step)
	}

	return TaskDetailDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Position:    task.Position,
		CreatedAt:   task.CreatedAt,
		Steps:       steps,
	}
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:        attachment.ID,
		TaskID:    attachment.TaskID,
		URL:       attachment.URL,
		Title:     attachment.Title,
		Position:  attachment.Position,
		CreatedAt: attachment.CreatedAt,
	}
}

// ToAttachmentDTOs converts a slice of attachments
func ToAttachmentDTOs(attachments []models.Attachment) []AttachmentDTO {
	dtos := make([]AttachmentDTO, len(attachments))
	for i, attachment := range attachments {
		dtos[i] = ToAttachmentDTO(attachment)
	}
	return dtos
}
