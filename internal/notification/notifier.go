// Package notification fans auction outcomes out to the slower channels:
// persisted in-app notifications, winner and seller emails, and the
// RabbitMQ lifecycle feed. Everything here is best-effort and asynchronous;
// a failure never reaches the auction flow.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/queue"
	"github.com/horizonmart/auction-BE/internal/util"
	"github.com/horizonmart/auction-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

const (
	NotificationTypeAuctionWon   = "auction_won"
	NotificationTypeAuctionEnded = "auction_ended"
	NotificationTypeOutbid       = "outbid"
)

type Notifier struct {
	taskDistributor worker.TaskDistributor
	publisher       *queue.Publisher // nil disables the lifecycle feed
}

func NewNotifier(taskDistributor worker.TaskDistributor, publisher *queue.Publisher) *Notifier {
	return &Notifier{
		taskDistributor: taskDistributor,
		publisher:       publisher,
	}
}

// AuctionFinalized notifies the winner and the seller that the auction
// ended, and feeds the outcome to the lifecycle queue.
func (n *Notifier) AuctionFinalized(ctx context.Context, result db.EndAuctionTxResult) {
	auction := result.Auction

	n.publish(ctx, "auctionEnded", auction.ID.String(), result)

	if result.HasWinner {
		n.notify(ctx, &worker.PayloadSendNotification{
			RecipientID: *result.WinnerID,
			Title:       "You won the auction!",
			Message: fmt.Sprintf("You won %s with a bid of %s.",
				util.TruncateContent(auction.ProductName, 80), util.FormatMoney(result.FinalPrice)),
			Type:        NotificationTypeAuctionWon,
			ReferenceID: auction.ID.String(),
		}, asynq.Queue(worker.QueueCritical))

		if result.WinningBid != nil && result.WinningBid.BidderEmail != nil {
			n.email(ctx, &worker.PayloadSendAuctionWonEmail{
				To:          *result.WinningBid.BidderEmail,
				ProductName: auction.ProductName,
				AuctionID:   auction.ID.String(),
				FinalPrice:  result.FinalPrice,
				IsSeller:    false,
			})
		}
	}

	n.notify(ctx, &worker.PayloadSendNotification{
		RecipientID: auction.SellerID,
		Title:       "Your auction has ended",
		Message:     sellerMessage(auction.ProductName, result),
		Type:        NotificationTypeAuctionEnded,
		ReferenceID: auction.ID.String(),
	}, asynq.Queue(worker.QueueDefault))

	if auction.SellerEmail != nil {
		n.email(ctx, &worker.PayloadSendAuctionWonEmail{
			To:          *auction.SellerEmail,
			ProductName: auction.ProductName,
			AuctionID:   auction.ID.String(),
			FinalPrice:  result.FinalPrice,
			IsSeller:    true,
		})
	}
}

// BidAccepted tells the previous highest bidder they were outbid and feeds
// the bid to the lifecycle queue.
func (n *Notifier) BidAccepted(ctx context.Context, auction db.Auction, bid db.AuctionBid, previousBidderID *string) {
	n.publish(ctx, "bidPlaced", auction.ID.String(), map[string]interface{}{
		"auction": auction,
		"bid":     bid,
	})

	if previousBidderID == nil || *previousBidderID == bid.BidderID {
		return
	}

	n.notify(ctx, &worker.PayloadSendNotification{
		RecipientID: *previousBidderID,
		Title:       "You have been outbid",
		Message: fmt.Sprintf("Someone bid %s on %s. Place a higher bid to stay in the race!",
			util.FormatMoney(bid.Amount), util.TruncateContent(auction.ProductName, 80)),
		Type:        NotificationTypeOutbid,
		ReferenceID: auction.ID.String(),
	}, asynq.Queue(worker.QueueDefault))
}

func sellerMessage(productName string, result db.EndAuctionTxResult) string {
	if !result.HasWinner {
		return fmt.Sprintf("Your auction for %s ended with no bids.", productName)
	}
	return fmt.Sprintf("Your auction for %s sold for %s.", productName, util.FormatMoney(result.FinalPrice))
}

func (n *Notifier) notify(ctx context.Context, payload *worker.PayloadSendNotification, opts ...asynq.Option) {
	if err := n.taskDistributor.DistributeTaskSendNotification(ctx, payload, opts...); err != nil {
		log.Err(err).Str("recipient_id", payload.RecipientID).Msg("failed to enqueue notification task")
	}
}

func (n *Notifier) email(ctx context.Context, payload *worker.PayloadSendAuctionWonEmail) {
	if err := n.taskDistributor.DistributeTaskSendAuctionWonEmail(ctx, payload, asynq.Queue(worker.QueueCritical)); err != nil {
		log.Err(err).Str("auction_id", payload.AuctionID).Msg("failed to enqueue email task")
	}
}

func (n *Notifier) publish(ctx context.Context, eventType, auctionID string, payload interface{}) {
	if n.publisher == nil {
		return
	}
	n.publisher.Publish(ctx, queue.LifecycleMessage{
		EventType:  eventType,
		AuctionID:  auctionID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
}
