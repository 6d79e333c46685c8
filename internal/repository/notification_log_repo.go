package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationLogRepository records one row per consumed classification
// event, for the notifier's audit trail.
type NotificationLogRepository struct {
	db *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Insert records a classification event. ON CONFLICT DO NOTHING keeps event
// redelivery idempotent (cls_id is unique).
func (r *NotificationLogRepository) Insert(ctx context.Context, clsID, msgID uuid.UUID, label string, priority int, createdAt time.Time) error {
	query := `
        INSERT INTO notification_log (cls_id, msg_id, label, priority, high_priority, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (cls_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, clsID, msgID, label, priority, priority >= 8, createdAt)
	return err
}
