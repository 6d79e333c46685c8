package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"briefdesk/internal/model"
	"briefdesk/internal/repository"
	"briefdesk/internal/service"
	"briefdesk/internal/taskgen"
)

// taskStore is the slice of the task repository the handler needs. Every
// by-id operation takes the caller's user id so one user cannot touch
// another's tasks.
type taskStore interface {
	ListByUser(ctx context.Context, userID, status string) ([]model.Task, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Task, error)
	Update(ctx context.Context, id uuid.UUID, userID string, u *model.TaskUpdate) (*model.Task, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, userID string) error
	Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}

type taskGenerator interface {
	GenerateFromClassifications(ctx context.Context, classificationIDs []uuid.UUID, userID string) (taskgen.Result, error)
}

type TaskHandler struct {
	taskService taskGenerator
	taskRepo    taskStore
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, taskRepo *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

// Generate handles POST /tasks/generate
func (h *TaskHandler) Generate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		ClassificationIDs []uuid.UUID `json:"classification_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.taskService.GenerateFromClassifications(c.Request.Context(), req.ClassificationIDs, userID)
	if err != nil {
		h.logger.Error("Task generation failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":           res.Tasks,
		"total_generated": res.TotalGenerated,
		"success_count":   res.SuccessCount,
		"error_count":     res.ErrorCount,
	})
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	if status != "" && status != string(model.TaskStatusOpen) && status != string(model.TaskStatusDone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	tasks, err := h.taskRepo.ListByUser(c.Request.Context(), userID, status)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	t, err := h.taskRepo.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("Failed to get task", zap.String("task_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}

	c.JSON(http.StatusOK, t)
}

// Update handles PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var u model.TaskUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if u.Status != nil && *u.Status != model.TaskStatusOpen && *u.Status != model.TaskStatusDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	if u.Priority != nil {
		p := model.ClampPriority(*u.Priority)
		u.Priority = &p
	}

	t, err := h.taskRepo.Update(c.Request.Context(), id, userID, &u)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("Failed to update task", zap.String("task_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, t)
}

// Complete handles POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.taskRepo.MarkCompleted(c.Request.Context(), id, userID); err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("Failed to complete task", zap.String("task_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "done"})
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	deleted, err := h.taskRepo.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("Failed to delete task", zap.String("task_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
