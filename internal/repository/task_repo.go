package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"briefdesk/internal/model"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Insert stores a task. The unique partial index on source_message_id keeps a
// second derivation from the same message idempotent.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (id, user_id, source_message_id, title, description, status, priority, due_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT DO NOTHING
    `
	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.SourceMessageID, t.Title, t.Description,
		t.Status, t.Priority, t.DueDate, t.CreatedAt,
	)
	return err
}

// GetByID returns the task only when it belongs to userID.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Task, error) {
	query := `
        SELECT id, user_id, source_message_id, title, description, status, priority, due_date, created_at
        FROM tasks
        WHERE id = $1 AND user_id = $2
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.SourceMessageID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns a user's tasks, optionally filtered by status.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, status string) ([]model.Task, error) {
	query := `
        SELECT id, user_id, source_message_id, title, description, status, priority, due_date, created_at
        FROM tasks
        WHERE user_id = $1
          AND ($2 = '' OR status = $2)
        ORDER BY priority DESC, created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		err := rows.Scan(
			&t.ID, &t.UserID, &t.SourceMessageID, &t.Title, &t.Description,
			&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update applies the non-nil fields of u to the caller's own task and
// returns the updated row.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, userID string, u *model.TaskUpdate) (*model.Task, error) {
	query := `
        UPDATE tasks
        SET title = COALESCE($3, title),
            description = COALESCE($4, description),
            status = COALESCE($5, status),
            priority = COALESCE($6, priority),
            due_date = COALESCE($7, due_date)
        WHERE id = $1 AND user_id = $2
        RETURNING id, user_id, source_message_id, title, description, status, priority, due_date, created_at
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id, userID, u.Title, u.Description, u.Status, u.Priority, u.DueDate).Scan(
		&t.ID, &t.UserID, &t.SourceMessageID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkCompleted sets the caller's task status to done.
func (r *TaskRepository) MarkCompleted(ctx context.Context, id uuid.UUID, userID string) error {
	query := `
        UPDATE tasks
        SET status = 'done'
        WHERE id = $1 AND user_id = $2
    `
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
