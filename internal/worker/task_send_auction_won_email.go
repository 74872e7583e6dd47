package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/horizonmart/auction-BE/internal/util"
	"github.com/rs/zerolog/log"
)

type PayloadSendAuctionWonEmail struct {
	To          string `json:"to"`
	ProductName string `json:"product_name"`
	AuctionID   string `json:"auction_id"`
	FinalPrice  int64  `json:"final_price"`
	IsSeller    bool   `json:"is_seller"`
}

func (distributor *RedisTaskDistributor) DistributeTaskSendAuctionWonEmail(
	ctx context.Context,
	payload *PayloadSendAuctionWonEmail,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskSendAuctionWonEmail, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Str("auction_id", payload.AuctionID).
		Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendAuctionWonEmail(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadSendAuctionWonEmail
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	if processor.mailer == nil {
		log.Warn().Str("auction_id", payload.AuctionID).Msg("email sender not configured, dropping auction won email")
		return nil
	}

	subject := fmt.Sprintf("Your auction for %s has ended", payload.ProductName)
	body := fmt.Sprintf(`<p>The auction for <strong>%s</strong> has ended at a final price of <strong>%s</strong>.</p>`,
		payload.ProductName, util.FormatMoney(payload.FinalPrice))
	if !payload.IsSeller {
		subject = fmt.Sprintf("You won the auction for %s!", payload.ProductName)
		body = fmt.Sprintf(`<p>Congratulations! You won the auction for <strong>%s</strong> with a bid of <strong>%s</strong>.</p>`,
			payload.ProductName, util.FormatMoney(payload.FinalPrice))
	}

	if err := processor.mailer.SendEmail(ctx, subject, body, []string{payload.To}); err != nil {
		log.Error().Err(err).Str("auction_id", payload.AuctionID).Msg("failed to send auction won email")
		return err
	}

	log.Info().Str("type", task.Type()).Str("to", payload.To).
		Str("auction_id", payload.AuctionID).Msg("task processed")

	return nil
}
