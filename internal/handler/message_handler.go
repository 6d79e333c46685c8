package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"briefdesk/internal/model"
	"briefdesk/internal/repository"
	"briefdesk/internal/service"
)

// messageReader is the slice of the message repository the handler needs.
type messageReader interface {
	List(ctx context.Context, f repository.MessageFilter) ([]model.Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
}

type messageIngestor interface {
	Ingest(ctx context.Context, in service.IngestInput) (*model.Message, error)
}

type MessageHandler struct {
	messageService messageIngestor
	msgRepo        messageReader
	logger         *zap.Logger
}

func NewMessageHandler(messageService *service.MessageService, msgRepo *repository.MessageRepository, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		msgRepo:        msgRepo,
		logger:         logger,
	}
}

// getUserID reads the authenticated user id placed by the auth middleware.
func getUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID.(string), true
}

// Ingest handles POST /messages
func (h *MessageHandler) Ingest(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var in service.IngestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if in.AccountID == "" {
		in.AccountID = userID
	}

	m, err := h.messageService.Ingest(c.Request.Context(), in)
	if err != nil {
		h.logger.Error("Message ingest failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, m)
}

// List handles GET /messages
func (h *MessageHandler) List(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	messages, err := h.msgRepo.List(c.Request.Context(), repository.MessageFilter{
		Channel: c.Query("channel"),
		Sender:  c.Query("sender"),
		Limit:   limit,
	})
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// Get handles GET /messages/:id
func (h *MessageHandler) Get(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	m, err := h.msgRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		h.logger.Error("Failed to get message", zap.String("msg_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get message"})
		return
	}

	c.JSON(http.StatusOK, m)
}
