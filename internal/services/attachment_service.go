package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taskboard/taskboard-api/internal/constants"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/storage"
	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// AttachmentService handles attachment business logic. Unlike the task
// read/edit/delete paths, all attachment paths distinguish a missing task
// from a foreign one.
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	taskRepo       repository.TaskRepository
	fileStorage    storage.FileStorage
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	taskRepo repository.TaskRepository,
	fileStorage storage.FileStorage,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
		fileStorage:    fileStorage,
	}
}

// AddAttachments stores the uploaded files and records one attachment per
// file, positioned after the task's existing attachments in submission
// order. Binary content is written to storage before any row is committed;
// a failure between the two leaves orphaned stored files behind.
func (s *AttachmentService) AddAttachments(ctx context.Context, actorID, taskID uint64, uploads []storage.Upload) ([]models.Attachment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return nil, ErrForeignTask
	}

	max, err := s.attachmentRepo.MaxPosition(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max position: %w", err)
	}

	stored, err := s.fileStorage.Store(ctx, constants.AttachmentContainer, uploads)
	if err != nil {
		return nil, fmt.Errorf("failed to store files: %w", err)
	}

	now := time.Now().UTC()
	attachments := make([]models.Attachment, len(stored))
	for i, file := range stored {
		attachments[i] = models.Attachment{
			TaskID:    taskID,
			URL:       file.URL,
			Title:     file.Title,
			Position:  max + i + 1,
			CreatedAt: now,
		}
	}

	if err := s.attachmentRepo.CreateBatch(attachments); err != nil {
		logrus.WithError(err).WithField("task_id", taskID).
			Warn("attachment rows not persisted, stored files orphaned")
		return nil, fmt.Errorf("failed to persist attachments: %w", err)
	}

	return attachments, nil
}

// RenameAttachment changes an attachment's title. The stored file keeps its
// generated name; the title is display metadata only.
func (s *AttachmentService) RenameAttachment(actorID, attachmentID uint64, title string) (*models.Attachment, error) {
	attachment, err := s.findOwnedAttachment(actorID, attachmentID)
	if err != nil {
		return nil, err
	}

	attachment.Title = title

	if err := s.attachmentRepo.Update(attachment); err != nil {
		return nil, fmt.Errorf("failed to update attachment: %w", err)
	}

	return attachment, nil
}

// DeleteAttachment removes the attachment row, then its stored content.
// Storage deletion tolerates already-missing files.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, actorID, attachmentID uint64) error {
	attachment, err := s.findOwnedAttachment(actorID, attachmentID)
	if err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(attachment.ID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	if err := s.fileStorage.Delete(ctx, attachment.URL, constants.AttachmentContainer); err != nil {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}

	return nil
}

func (s *AttachmentService) findOwnedAttachment(actorID, attachmentID uint64) (*models.Attachment, error) {
	attachment, err := s.attachmentRepo.FindByID(attachmentID, "Task")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	if attachment.Task.OwnerID != actorID {
		return nil, ErrForeignTask
	}

	return attachment, nil
}
