package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx used by Queries so the same query methods run
// against the pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Store provides all functions to execute db queries and transactions.
type Store interface {
	Querier

	PlaceBidTx(ctx context.Context, arg PlaceBidTxParams) (PlaceBidTxResult, error)
	BeginEndingTx(ctx context.Context, arg BeginEndingTxParams) (Auction, error)
	EndAuctionTx(ctx context.Context, arg EndAuctionTxParams) (EndAuctionTxResult, error)

	Ping(ctx context.Context) error
}

// Querier lists the single-statement operations on the durable store.
type Querier interface {
	CreateAuction(ctx context.Context, arg CreateAuctionParams) (Auction, error)
	GetAuctionByID(ctx context.Context, id uuid.UUID) (Auction, error)
	GetAuctionByIDForUpdate(ctx context.Context, id uuid.UUID) (Auction, error)
	ListAuctions(ctx context.Context, arg ListAuctionsParams) ([]Auction, error)
	CountAuctions(ctx context.Context, arg CountAuctionsParams) (int64, error)
	ListAuctionsByStatuses(ctx context.Context, statuses []AuctionStatus) ([]Auction, error)
	UpdateAuction(ctx context.Context, arg UpdateAuctionParams) (Auction, error)
	CreateAuctionBid(ctx context.Context, arg CreateAuctionBidParams) (AuctionBid, error)
	ListAuctionBids(ctx context.Context, auctionID uuid.UUID) ([]AuctionBid, error)
	GetHighestBid(ctx context.Context, auctionID uuid.UUID) (AuctionBid, error)
	CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error)
}

type SQLStore struct {
	*Queries
	connPool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) Store {
	return &SQLStore{
		Queries:  New(db),
		connPool: db,
	}
}

// Ping checks if the database connection is alive.
func (store *SQLStore) Ping(ctx context.Context) error {
	return store.connPool.Ping(ctx)
}

// ExecTx executes a function within a database transaction.
func (store *SQLStore) ExecTx(ctx context.Context, fn func(qTx *Queries) error) error {
	tx, err := store.connPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	qTx := New(tx)
	if err = fn(qTx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}
