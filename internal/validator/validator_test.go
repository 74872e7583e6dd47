package validator

import (
	"testing"
	"time"
)

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("buyer@example.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("invalid email accepted")
	}
	if err := ValidateEmail("a@b"); err == nil {
		t.Error("too-short email accepted")
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://cdn.example.com/camera.jpg"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	if err := ValidateURL("no-scheme-here"); err == nil {
		t.Error("URL without scheme accepted")
	}
}

func TestValidateAuctionStartingPrice(t *testing.T) {
	if err := ValidateAuctionStartingPrice(1000); err != nil {
		t.Errorf("positive price rejected: %v", err)
	}
	if err := ValidateAuctionStartingPrice(0); err == nil {
		t.Error("zero price accepted")
	}
	if err := ValidateAuctionStartingPrice(-50); err == nil {
		t.Error("negative price accepted")
	}
}

func TestValidateAuctionTimes(t *testing.T) {
	now := time.Now()
	if err := ValidateAuctionTimes(now, now.Add(time.Hour)); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	if err := ValidateAuctionTimes(now, now); err == nil {
		t.Error("zero-length window accepted")
	}
	if err := ValidateAuctionTimes(time.Time{}, now); err == nil {
		t.Error("missing start_time accepted")
	}
}

func TestValidateBidAmount(t *testing.T) {
	if err := ValidateBidAmount(1); err != nil {
		t.Errorf("positive amount rejected: %v", err)
	}
	if err := ValidateBidAmount(0); err == nil {
		t.Error("zero amount accepted")
	}
}
