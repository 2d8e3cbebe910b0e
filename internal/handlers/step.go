package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/services"
)

// StepHandler coordinates step HTTP handlers. Step paths report a missing
// task as 404 and a foreign one as 403, unlike the fused task paths.
type StepHandler struct {
	stepService *services.StepService
}

// NewStepHandler creates a new StepHandler
func NewStepHandler(stepService *services.StepService) *StepHandler {
	return &StepHandler{
		stepService: stepService,
	}
}

// CreateStep appends a step to a task.
func (h *StepHandler) CreateStep(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	type CreateStepRequest struct {
		Description string `json:"description" binding:"required"`
		Done        bool   `json:"done"`
	}

	var req CreateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	step, err := h.stepService.CreateStep(userID, taskID, req.Description, req.Done)
	if err != nil {
		respondStepError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStepDTO(*step))
}

// UpdateStep edits a step's description and completion flag.
func (h *StepHandler) UpdateStep(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stepID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateStepRequest struct {
		Description string `json:"description" binding:"required"`
		Done        bool   `json:"done"`
	}

	var req UpdateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	step, err := h.stepService.UpdateStep(userID, stepID, services.UpdateStepInput{
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStepDTO(*step))
}

// DeleteStep removes a step.
func (h *StepHandler) DeleteStep(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stepID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.stepService.DeleteStep(userID, stepID); err != nil {
		respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Step deleted"})
}

// ReorderSteps rewrites a task's step positions from the submitted id order.
func (h *StepHandler) ReorderSteps(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.stepService.ReorderSteps(userID, taskID, ids); err != nil {
		respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Steps reordered"})
}

func respondStepError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrStepNotFound):
		apierrors.NotFound(c, "Step not found")
	case errors.Is(err, services.ErrForeignTask), errors.Is(err, services.ErrForeignStep):
		apierrors.Forbidden(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
