package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/services"
	"github.com/taskboard/taskboard-api/internal/storage"
)

// FileHandler coordinates attachment HTTP handlers.
type FileHandler struct {
	attachmentService *services.AttachmentService
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(attachmentService *services.AttachmentService) *FileHandler {
	return &FileHandler{
		attachmentService: attachmentService,
	}
}

// UploadFiles attaches the submitted multipart files to a task. A missing
// task is 404; someone else's task is 403.
func (h *FileHandler) UploadFiles(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		apierrors.BadRequest(c, "No files submitted")
		return
	}

	uploads := make([]storage.Upload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			apierrors.BadRequest(c, "Unreadable file: "+header.Filename)
			return
		}
		opened = append(opened, file)
		uploads = append(uploads, storage.Upload{
			Name:   header.Filename,
			Reader: file,
		})
	}

	attachments, err := h.attachmentService.AddAttachments(c.Request.Context(), userID, taskID, uploads)
	if err != nil {
		respondFileError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"task_id": taskID,
		"count":   len(attachments),
	}).Info("attachments uploaded")

	c.JSON(http.StatusOK, dto.ToAttachmentDTOs(attachments))
}

// RenameFile updates an attachment's display title.
func (h *FileHandler) RenameFile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	attachmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type RenameRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attachment, err := h.attachmentService.RenameAttachment(userID, attachmentID, req.Title)
	if err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTO(*attachment))
}

// DeleteFile removes an attachment and its stored content.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	attachmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.attachmentService.DeleteAttachment(c.Request.Context(), userID, attachmentID); err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}

func respondFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, "Attachment not found")
	case errors.Is(err, services.ErrForeignTask):
		apierrors.Forbidden(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
