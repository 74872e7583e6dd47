package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

const (
	TaskSendNotification    = "notification:send"
	TaskSendAuctionWonEmail = "email:auction_won"
)

/*
This file will contain the codes to create tasks and distributes them to the Redis queue.
*/

type TaskDistributor interface {
	DistributeTaskSendNotification(ctx context.Context, payload *PayloadSendNotification, opts ...asynq.Option) error
	DistributeTaskSendAuctionWonEmail(ctx context.Context, payload *PayloadSendAuctionWonEmail, opts ...asynq.Option) error
}

type RedisTaskDistributor struct {
	client *asynq.Client // client sends tasks to redis queue.
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		client: client,
	}
}
