package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"briefdesk/internal/model"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// MessageFilter narrows List results. Zero values mean no filtering.
type MessageFilter struct {
	Channel string
	Sender  string
	Limit   int
}

// Insert stores a message. ON CONFLICT DO NOTHING keeps re-ingestion of the
// same external id idempotent.
func (r *MessageRepository) Insert(ctx context.Context, m *model.Message) error {
	query := `
        INSERT INTO messages (id, account_id, external_id, channel, sender, subject, snippet, received_at, raw_ref, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (external_id, channel) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query,
		m.ID, m.AccountID, m.ExternalID, m.Channel, m.Sender,
		m.Subject, m.Snippet, m.ReceivedAt, m.RawRef, m.CreatedAt,
	)
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
        SELECT id, account_id, external_id, channel, sender, subject, snippet, received_at, raw_ref, created_at
        FROM messages
        WHERE id = $1
    `
	var m model.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.AccountID, &m.ExternalID, &m.Channel, &m.Sender,
		&m.Subject, &m.Snippet, &m.ReceivedAt, &m.RawRef, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) List(ctx context.Context, f MessageFilter) ([]model.Message, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT id, account_id, external_id, channel, sender, subject, snippet, received_at, raw_ref, created_at
        FROM messages
        WHERE ($1 = '' OR channel = $1)
          AND ($2 = '' OR sender = $2)
        ORDER BY received_at DESC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, f.Channel, f.Sender, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		err := rows.Scan(
			&m.ID, &m.AccountID, &m.ExternalID, &m.Channel, &m.Sender,
			&m.Subject, &m.Snippet, &m.ReceivedAt, &m.RawRef, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// ListByIDs returns the messages whose ids appear in ids, in store order.
// Missing ids are simply absent from the result.
func (r *MessageRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
        SELECT id, account_id, external_id, channel, sender, subject, snippet, received_at, raw_ref, created_at
        FROM messages
        WHERE id = ANY($1)
    `
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		err := rows.Scan(
			&m.ID, &m.AccountID, &m.ExternalID, &m.Channel, &m.Sender,
			&m.Subject, &m.Snippet, &m.ReceivedAt, &m.RawRef, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
