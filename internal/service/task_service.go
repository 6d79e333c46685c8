package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefdesk/internal/repository"
	"briefdesk/internal/taskgen"
)

// TaskService turns stored classifications into stored tasks.
type TaskService struct {
	generator *taskgen.Generator
	clsRepo   *repository.ClassificationRepository
	msgRepo   *repository.MessageRepository
	taskRepo  *repository.TaskRepository
	logger    *zap.Logger
}

func NewTaskService(
	generator *taskgen.Generator,
	clsRepo *repository.ClassificationRepository,
	msgRepo *repository.MessageRepository,
	taskRepo *repository.TaskRepository,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		generator: generator,
		clsRepo:   clsRepo,
		msgRepo:   msgRepo,
		taskRepo:  taskRepo,
		logger:    logger,
	}
}

// GenerateFromClassifications loads the referenced classifications and their
// messages, runs the generator, and stores the resulting tasks. Requested
// classification ids that do not exist are counted as per-item errors.
func (s *TaskService) GenerateFromClassifications(ctx context.Context, classificationIDs []uuid.UUID, userID string) (taskgen.Result, error) {
	classifications, err := s.clsRepo.ListByIDs(ctx, classificationIDs, userID)
	if err != nil {
		return taskgen.Result{}, fmt.Errorf("failed to load classifications: %w", err)
	}

	missing := len(classificationIDs) - len(classifications)
	if missing > 0 {
		s.logger.Warn("Some classifications not found",
			zap.Int("requested", len(classificationIDs)),
			zap.Int("found", len(classifications)),
		)
	}

	msgIDs := make([]uuid.UUID, 0, len(classifications))
	for i := range classifications {
		msgIDs = append(msgIDs, classifications[i].MessageID)
	}

	messages, err := s.msgRepo.ListByIDs(ctx, msgIDs)
	if err != nil {
		return taskgen.Result{}, fmt.Errorf("failed to load messages: %w", err)
	}

	res := s.generator.Generate(ctx, classifications, messages, userID)
	res.TotalGenerated += missing
	res.ErrorCount += missing

	for i := range res.Tasks {
		t := &res.Tasks[i]
		if err := s.taskRepo.Insert(ctx, t); err != nil {
			s.logger.Error("Failed to store task",
				zap.String("task_id", t.ID.String()),
				zap.Error(err),
			)
		}
	}

	return res, nil
}
