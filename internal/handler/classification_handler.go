package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"briefdesk/internal/classify"
	"briefdesk/internal/model"
	"briefdesk/internal/repository"
	"briefdesk/internal/service"
)

// classificationStore is the slice of the classification repository the
// handler needs, with by-id operations scoped to the caller's user id.
type classificationStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Classification, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Classification, error)
	Update(ctx context.Context, id uuid.UUID, userID string, label *model.Label, priority *int) (*model.Classification, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}

type classifyRunner interface {
	ClassifyBatch(ctx context.Context, req service.ClassifyRequest) (classify.Result, error)
}

type ClassificationHandler struct {
	clsService classifyRunner
	clsRepo    classificationStore
	logger     *zap.Logger
}

func NewClassificationHandler(clsService *service.ClassificationService, clsRepo *repository.ClassificationRepository, logger *zap.Logger) *ClassificationHandler {
	return &ClassificationHandler{
		clsService: clsService,
		clsRepo:    clsRepo,
		logger:     logger,
	}
}

// Run handles POST /classify
// An empty message_ids list classifies the newest unclassified messages.
func (h *ClassificationHandler) Run(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		MessageIDs []uuid.UUID `json:"message_ids"`
		Limit      int         `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.clsService.ClassifyBatch(c.Request.Context(), service.ClassifyRequest{
		MessageIDs: req.MessageIDs,
		UserID:     userID,
		Limit:      req.Limit,
	})
	if err != nil {
		h.logger.Error("Classification run failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "classification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classifications": res.Classifications,
		"total_processed": res.TotalProcessed,
		"success_count":   res.SuccessCount,
		"error_count":     res.ErrorCount,
	})
}

// List handles GET /classifications
func (h *ClassificationHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	classifications, err := h.clsRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list classifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"classifications": classifications, "count": len(classifications)})
}

// Get handles GET /classifications/:id
func (h *ClassificationHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classification id"})
		return
	}

	cls, err := h.clsRepo.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "classification not found"})
			return
		}
		h.logger.Error("Failed to get classification", zap.String("cls_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get classification"})
		return
	}

	c.JSON(http.StatusOK, cls)
}

// Update handles PATCH /classifications/:id
func (h *ClassificationHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classification id"})
		return
	}

	var req struct {
		Label    *model.Label `json:"label"`
		Priority *int         `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Label != nil && !model.ValidLabel(*req.Label) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown label"})
		return
	}
	if req.Priority != nil {
		p := model.ClampPriority(*req.Priority)
		req.Priority = &p
	}

	cls, err := h.clsRepo.Update(c.Request.Context(), id, userID, req.Label, req.Priority)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "classification not found"})
			return
		}
		h.logger.Error("Failed to update classification", zap.String("cls_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update classification"})
		return
	}

	c.JSON(http.StatusOK, cls)
}

// Delete handles DELETE /classifications/:id
func (h *ClassificationHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classification id"})
		return
	}

	deleted, err := h.clsRepo.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("Failed to delete classification", zap.String("cls_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete classification"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "classification not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
