package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type CreateNotificationParams struct {
	RecipientID string
	Title       string
	Message     string
	Type        string
	ReferenceID string
}

const createNotification = `
INSERT INTO notifications (id, recipient_id, title, message, type, reference_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, recipient_id, title, message, type, reference_id, is_read, created_at`

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Notification{}, fmt.Errorf("failed to generate notification ID: %w", err)
	}

	var n Notification
	err = q.db.QueryRow(ctx, createNotification,
		id,
		arg.RecipientID,
		arg.Title,
		arg.Message,
		arg.Type,
		arg.ReferenceID,
	).Scan(
		&n.ID,
		&n.RecipientID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.ReferenceID,
		&n.IsRead,
		&n.CreatedAt,
	)
	return n, err
}
