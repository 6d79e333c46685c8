package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/internal/brief"
	"briefdesk/internal/model"
	"briefdesk/internal/repository"
)

// BriefService assembles and stores daily briefs for a user.
type BriefService struct {
	builder   *brief.Builder
	clsRepo   *repository.ClassificationRepository
	msgRepo   *repository.MessageRepository
	briefRepo *repository.BriefRepository
	logger    *zap.Logger
}

func NewBriefService(
	builder *brief.Builder,
	clsRepo *repository.ClassificationRepository,
	msgRepo *repository.MessageRepository,
	briefRepo *repository.BriefRepository,
	logger *zap.Logger,
) *BriefService {
	return &BriefService{
		builder:   builder,
		clsRepo:   clsRepo,
		msgRepo:   msgRepo,
		briefRepo: briefRepo,
		logger:    logger,
	}
}

// Generate builds a brief from all of the user's classifications and stores
// it. briefDate zero means today. maxItems <= 0 falls back to the builder
// default.
func (s *BriefService) Generate(ctx context.Context, userID string, briefDate time.Time, maxItems int) (*model.Brief, error) {
	if briefDate.IsZero() {
		briefDate = timeNow().UTC().Truncate(24 * time.Hour)
	}

	classifications, err := s.clsRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifications: %w", err)
	}

	msgIDs := make([]uuid.UUID, 0, len(classifications))
	for i := range classifications {
		msgIDs = append(msgIDs, classifications[i].MessageID)
	}

	messages, err := s.msgRepo.ListByIDs(ctx, msgIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	b := s.builder.Build(userID, briefDate, classifications, messages, maxItems)

	if err := s.briefRepo.Insert(ctx, &b); err != nil {
		return nil, fmt.Errorf("failed to store brief: %w", err)
	}

	s.logger.Info("Brief generated",
		zap.String("brief_id", b.ID.String()),
		zap.String("user_id", userID),
		zap.Int("total_items", b.TotalItems),
		zap.Int("high_priority", b.HighPriorityCount),
	)

	return &b, nil
}
