package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

// PayloadSendNotification contain all data of the task that we want to store in Redis.
type PayloadSendNotification struct {
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id"`
}

func (distributor *RedisTaskDistributor) DistributeTaskSendNotification(
	ctx context.Context,
	payload *PayloadSendNotification,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskSendNotification, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadSendNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	notification, err := processor.store.CreateNotification(ctx, db.CreateNotificationParams{
		RecipientID: payload.RecipientID,
		Title:       payload.Title,
		Message:     payload.Message,
		Type:        payload.Type,
		ReferenceID: payload.ReferenceID,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create notification")
		return err
	}

	log.Info().Str("type", task.Type()).Str("notification_id", notification.ID.String()).
		Str("recipient_id", payload.RecipientID).Msg("task processed")

	return nil
}
