package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AuctionCache is a read-through cache for the auction detail view. It is
// strictly advisory: every error degrades to a cache miss, and lifecycle
// transitions invalidate the entry so a stale status never outlives one TTL.
type AuctionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAuctionCache(client *redis.Client, ttl time.Duration) *AuctionCache {
	return &AuctionCache{
		client: client,
		ttl:    ttl,
	}
}

func detailKey(auctionID uuid.UUID) string {
	return fmt.Sprintf("auction:detail:%s", auctionID)
}

// GetAuctionDetails returns the cached detail view, or found=false on a
// miss or any redis failure.
func (c *AuctionCache) GetAuctionDetails(ctx context.Context, auctionID uuid.UUID) (db.AuctionDetails, bool) {
	var details db.AuctionDetails

	payload, err := c.client.Get(ctx, detailKey(auctionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("auction_id", auctionID.String()).Msg("auction cache read failed")
		}
		return details, false
	}

	if err = json.Unmarshal(payload, &details); err != nil {
		log.Debug().Err(err).Str("auction_id", auctionID.String()).Msg("auction cache entry corrupt")
		return details, false
	}

	return details, true
}

// SetAuctionDetails stores the detail view for the configured TTL.
func (c *AuctionCache) SetAuctionDetails(ctx context.Context, details db.AuctionDetails) {
	payload, err := json.Marshal(details)
	if err != nil {
		log.Debug().Err(err).Str("auction_id", details.ID.String()).Msg("auction cache marshal failed")
		return
	}

	if err = c.client.Set(ctx, detailKey(details.ID), payload, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("auction_id", details.ID.String()).Msg("auction cache write failed")
	}
}

// InvalidateAuction drops the cached detail view after a bid or a
// lifecycle transition.
func (c *AuctionCache) InvalidateAuction(ctx context.Context, auctionID uuid.UUID) {
	if err := c.client.Del(ctx, detailKey(auctionID)).Err(); err != nil {
		log.Debug().Err(err).Str("auction_id", auctionID.String()).Msg("auction cache invalidate failed")
	}
}
