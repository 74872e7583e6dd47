package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const auctionColumns = `id, product_name, slug, description, image_url, starting_price,
	start_time, end_time, seller_id, seller_email, status, last_bid_time, winner_id,
	ended_at, created_at, updated_at`

func scanAuction(row interface{ Scan(dest ...any) error }) (Auction, error) {
	var a Auction
	err := row.Scan(
		&a.ID,
		&a.ProductName,
		&a.Slug,
		&a.Description,
		&a.ImageURL,
		&a.StartingPrice,
		&a.StartTime,
		&a.EndTime,
		&a.SellerID,
		&a.SellerEmail,
		&a.Status,
		&a.LastBidTime,
		&a.WinnerID,
		&a.EndedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

type CreateAuctionParams struct {
	ID            uuid.UUID
	ProductName   string
	Slug          string
	Description   string
	ImageURL      string
	StartingPrice int64
	StartTime     time.Time
	EndTime       time.Time
	SellerID      string
	SellerEmail   *string
}

const createAuction = `
INSERT INTO auctions (id, product_name, slug, description, image_url, starting_price,
	start_time, end_time, seller_id, seller_email, status, last_bid_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'active', $7)
RETURNING ` + auctionColumns

// CreateAuction inserts a new active auction. lastBidTime starts at the
// auction start time so inactivity is measured from the opening instant.
func (q *Queries) CreateAuction(ctx context.Context, arg CreateAuctionParams) (Auction, error) {
	row := q.db.QueryRow(ctx, createAuction,
		arg.ID,
		arg.ProductName,
		arg.Slug,
		arg.Description,
		arg.ImageURL,
		arg.StartingPrice,
		arg.StartTime,
		arg.EndTime,
		arg.SellerID,
		arg.SellerEmail,
	)
	return scanAuction(row)
}

const getAuctionByID = `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`

func (q *Queries) GetAuctionByID(ctx context.Context, id uuid.UUID) (Auction, error) {
	return scanAuction(q.db.QueryRow(ctx, getAuctionByID, id))
}

const getAuctionByIDForUpdate = getAuctionByID + ` FOR UPDATE`

// GetAuctionByIDForUpdate locks the auction row for the duration of the
// surrounding transaction. All transactional state changes go through this
// lock so concurrent bids and timer callbacks serialize at the store too.
func (q *Queries) GetAuctionByIDForUpdate(ctx context.Context, id uuid.UUID) (Auction, error) {
	return scanAuction(q.db.QueryRow(ctx, getAuctionByIDForUpdate, id))
}

type ListAuctionsParams struct {
	SellerID  *string
	Status    *AuctionStatus
	SortField string // whitelisted in sortColumn
	SortDesc  bool
	Limit     int32
	Offset    int32
}

type CountAuctionsParams struct {
	SellerID *string
	Status   *AuctionStatus
}

// sortColumn maps an external sort field name to a real column. Unknown
// fields fall back to creation time.
func sortColumn(field string) string {
	switch field {
	case "start_time":
		return "start_time"
	case "end_time":
		return "end_time"
	case "starting_price":
		return "starting_price"
	case "last_bid_time":
		return "last_bid_time"
	default:
		return "created_at"
	}
}

func (q *Queries) ListAuctions(ctx context.Context, arg ListAuctionsParams) ([]Auction, error) {
	direction := "ASC"
	if arg.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT `+auctionColumns+`
FROM auctions
WHERE ($1::text IS NULL OR seller_id = $1)
  AND ($2::text IS NULL OR status = $2)
ORDER BY %s %s
LIMIT $3 OFFSET $4`, sortColumn(arg.SortField), direction)

	rows, err := q.db.Query(ctx, query, arg.SellerID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Auction{}
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const countAuctions = `
SELECT count(*) FROM auctions
WHERE ($1::text IS NULL OR seller_id = $1)
  AND ($2::text IS NULL OR status = $2)`

func (q *Queries) CountAuctions(ctx context.Context, arg CountAuctionsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countAuctions, arg.SellerID, arg.Status).Scan(&count)
	return count, err
}

const listAuctionsByStatuses = `
SELECT ` + auctionColumns + `
FROM auctions
WHERE status = ANY($1)
ORDER BY created_at`

// ListAuctionsByStatuses returns every auction in one of the given states.
// The periodic sweep uses it to evaluate all active and ending auctions.
func (q *Queries) ListAuctionsByStatuses(ctx context.Context, statuses []AuctionStatus) ([]Auction, error) {
	rows, err := q.db.Query(ctx, listAuctionsByStatuses, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Auction{}
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

type UpdateAuctionParams struct {
	ID          uuid.UUID
	Status      *AuctionStatus
	LastBidTime *time.Time
	WinnerID    *string
	EndedAt     *time.Time
}

const updateAuction = `
UPDATE auctions
SET status        = COALESCE($2, status),
    last_bid_time = COALESCE($3, last_bid_time),
    winner_id     = COALESCE($4, winner_id),
    ended_at      = COALESCE($5, ended_at),
    updated_at    = now()
WHERE id = $1
RETURNING ` + auctionColumns

func (q *Queries) UpdateAuction(ctx context.Context, arg UpdateAuctionParams) (Auction, error) {
	row := q.db.QueryRow(ctx, updateAuction,
		arg.ID,
		arg.Status,
		arg.LastBidTime,
		arg.WinnerID,
		arg.EndedAt,
	)
	return scanAuction(row)
}
