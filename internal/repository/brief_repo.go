package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"briefdesk/internal/model"
)

// BriefRepository stores briefs with their items as a JSONB column: briefs
// are built on demand and read whole, never item-by-item.
type BriefRepository struct {
	db *pgxpool.Pool
}

func NewBriefRepository(db *pgxpool.Pool) *BriefRepository {
	return &BriefRepository{db: db}
}

func (r *BriefRepository) Insert(ctx context.Context, b *model.Brief) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal brief items: %w", err)
	}

	query := `
        INSERT INTO briefs (id, user_id, brief_date, total_items, high_priority_count, todo_count, followup_count, items, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err = r.db.Exec(ctx, query,
		b.ID, b.UserID, b.BriefDate, b.TotalItems, b.HighPriorityCount,
		b.TodoCount, b.FollowupCount, items, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetByID returns the brief only when it belongs to userID.
func (r *BriefRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Brief, error) {
	query := `
        SELECT id, user_id, brief_date, total_items, high_priority_count, todo_count, followup_count, items, created_at, updated_at
        FROM briefs
        WHERE id = $1 AND user_id = $2
    `
	var b model.Brief
	var items []byte
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&b.ID, &b.UserID, &b.BriefDate, &b.TotalItems, &b.HighPriorityCount,
		&b.TodoCount, &b.FollowupCount, &items, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &b.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brief items: %w", err)
	}
	return &b, nil
}

func (r *BriefRepository) ListByUser(ctx context.Context, userID string) ([]model.Brief, error) {
	query := `
        SELECT id, user_id, brief_date, total_items, high_priority_count, todo_count, followup_count, items, created_at, updated_at
        FROM briefs
        WHERE user_id = $1
        ORDER BY brief_date DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefs []model.Brief
	for rows.Next() {
		var b model.Brief
		var items []byte
		err := rows.Scan(
			&b.ID, &b.UserID, &b.BriefDate, &b.TotalItems, &b.HighPriorityCount,
			&b.TodoCount, &b.FollowupCount, &items, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brief items: %w", err)
		}
		briefs = append(briefs, b)
	}

	return briefs, rows.Err()
}
