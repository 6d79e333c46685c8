package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"briefdesk/internal/model"
	"briefdesk/internal/repository"
	"briefdesk/internal/service"
)

// briefStore is the slice of the brief repository the handler needs, with
// GetByID scoped to the caller's user id.
type briefStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Brief, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Brief, error)
}

type briefGenerator interface {
	Generate(ctx context.Context, userID string, briefDate time.Time, maxItems int) (*model.Brief, error)
}

type BriefHandler struct {
	briefService briefGenerator
	briefRepo    briefStore
	logger       *zap.Logger
}

func NewBriefHandler(briefService *service.BriefService, briefRepo *repository.BriefRepository, logger *zap.Logger) *BriefHandler {
	return &BriefHandler{
		briefService: briefService,
		briefRepo:    briefRepo,
		logger:       logger,
	}
}

// Generate handles POST /briefs/generate
func (h *BriefHandler) Generate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		BriefDate string `json:"brief_date"`
		MaxItems  int    `json:"max_items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var briefDate time.Time
	if req.BriefDate != "" {
		d, err := time.Parse("2006-01-02", req.BriefDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "brief_date must be YYYY-MM-DD"})
			return
		}
		briefDate = d
	}

	b, err := h.briefService.Generate(c.Request.Context(), userID, briefDate, req.MaxItems)
	if err != nil {
		h.logger.Error("Brief generation failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "brief generation failed"})
		return
	}

	c.JSON(http.StatusOK, b)
}

// List handles GET /briefs
func (h *BriefHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	briefs, err := h.briefRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list briefs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list briefs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"briefs": briefs, "count": len(briefs)})
}

// Get handles GET /briefs/:id
func (h *BriefHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid brief id"})
		return
	}

	b, err := h.briefRepo.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "brief not found"})
			return
		}
		h.logger.Error("Failed to get brief", zap.String("brief_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get brief"})
		return
	}

	c.JSON(http.StatusOK, b)
}
