package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"briefdesk/internal/model"
)

type ClassificationRepository struct {
	db *pgxpool.Pool
}

func NewClassificationRepository(db *pgxpool.Pool) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

// Insert stores a classification. The (msg_id, user_id) unique constraint plus
// ON CONFLICT DO NOTHING keeps the one-classification-per-message-per-user
// invariant idempotent under redelivery.
func (r *ClassificationRepository) Insert(ctx context.Context, c *model.Classification) error {
	query := `
        INSERT INTO classifications (id, msg_id, user_id, label, priority, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (msg_id, user_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, c.ID, c.MessageID, c.UserID, c.Label, c.Priority, c.CreatedAt)
	return err
}

// GetByID returns the classification only when it belongs to userID.
func (r *ClassificationRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Classification, error) {
	query := `
        SELECT id, msg_id, user_id, label, priority, created_at
        FROM classifications
        WHERE id = $1 AND user_id = $2
    `
	var c model.Classification
	err := r.db.QueryRow(ctx, query, id, userID).Scan(&c.ID, &c.MessageID, &c.UserID, &c.Label, &c.Priority, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClassificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Classification, error) {
	query := `
        SELECT id, msg_id, user_id, label, priority, created_at
        FROM classifications
        WHERE user_id = $1
        ORDER BY created_at ASC
    `
	return r.queryMany(ctx, query, userID)
}

// ListByIDs returns the user's classifications whose ids appear in ids.
// Other users' rows are absent from the result, like unknown ids.
func (r *ClassificationRepository) ListByIDs(ctx context.Context, ids []uuid.UUID, userID string) ([]model.Classification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
        SELECT id, msg_id, user_id, label, priority, created_at
        FROM classifications
        WHERE id = ANY($1) AND user_id = $2
        ORDER BY created_at ASC
    `
	return r.queryMany(ctx, query, ids, userID)
}

// ClassifiedMessageIDs returns which of msgIDs already have a classification
// for the given user. The caller uses it to filter a batch before classifying.
func (r *ClassificationRepository) ClassifiedMessageIDs(ctx context.Context, userID string, msgIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(msgIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}

	query := `
        SELECT msg_id
        FROM classifications
        WHERE user_id = $1 AND msg_id = ANY($2)
    `
	rows, err := r.db.Query(ctx, query, userID, msgIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classified := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		classified[id] = true
	}

	return classified, rows.Err()
}

// Update sets label and/or priority on the caller's own classification. Nil
// means unchanged.
func (r *ClassificationRepository) Update(ctx context.Context, id uuid.UUID, userID string, label *model.Label, priority *int) (*model.Classification, error) {
	query := `
        UPDATE classifications
        SET label = COALESCE($3, label),
            priority = COALESCE($4, priority)
        WHERE id = $1 AND user_id = $2
        RETURNING id, msg_id, user_id, label, priority, created_at
    `
	var c model.Classification
	err := r.db.QueryRow(ctx, query, id, userID, label, priority).Scan(&c.ID, &c.MessageID, &c.UserID, &c.Label, &c.Priority, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClassificationRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM classifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ClassificationRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.Classification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Classification
	for rows.Next() {
		var c model.Classification
		if err := rows.Scan(&c.ID, &c.MessageID, &c.UserID, &c.Label, &c.Priority, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}
