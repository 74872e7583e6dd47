package validator

import (
	"fmt"
	"time"

	"github.com/horizonmart/auction-BE/internal/util"
)

// ValidateAuctionStartingPrice validates the minimum starting price
func ValidateAuctionStartingPrice(price int64) error {
	if price <= 0 {
		return fmt.Errorf("starting_price must be greater than zero, provided: %s",
			util.FormatMoney(price))
	}
	return nil
}

// ValidateAuctionTimes validates the scheduled auction window
func ValidateAuctionTimes(startTime, endTime time.Time) error {
	if startTime.IsZero() || endTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}

	if !endTime.After(startTime) {
		return fmt.Errorf("end_time must be after start_time")
	}

	return nil
}

// ValidateBidAmount validates a bid before the highest-bid comparison
func ValidateBidAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than zero, provided: %s",
			util.FormatMoney(amount))
	}
	return nil
}
