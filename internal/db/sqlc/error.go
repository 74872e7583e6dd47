package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolationCode = "23505"
)

var ErrRecordNotFound = pgx.ErrNoRows

var (
	// ErrAuctionEnded is returned when an operation targets an auction whose
	// status is already ended. Finalizing an ended auction maps to a no-op
	// at the caller.
	ErrAuctionEnded = errors.New("auction has already ended")

	// ErrAuctionNotActive is returned by BeginEndingTx when the status check
	// fails, i.e. a bid was accepted between evaluation and the transition.
	ErrAuctionNotActive = errors.New("auction is not active")

	// ErrAuctionStillActive is returned by BeginEndingTx when the row-locked
	// activity check finds a bid that landed after the inactivity evaluation
	// but before the transition acquired the lock.
	ErrAuctionStillActive = errors.New("auction has recent activity")

	// ErrAuctionNotEnding is returned by EndAuctionTx when the auction left
	// the ending state before the countdown completed.
	ErrAuctionNotEnding = errors.New("auction is not in ending state")

	ErrBidTooLow = errors.New("bid amount must exceed the current highest bid")
)

// BidTooLowError carries the current highest bid so the caller can render
// a precise message and the client can retry with a corrected amount.
type BidTooLowError struct {
	CurrentHighest int64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid amount must exceed the current highest bid of %d", e.CurrentHighest)
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}

// ErrorDescription returns the error code and constraint name from a Postgres error.
func ErrorDescription(err error) (errCode string, constraintName string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	return
}
