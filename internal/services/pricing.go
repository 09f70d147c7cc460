package services

import (
	"math"
	"time"

	"github.com/baharkarakas/campus-closet/internal/models"
)

// DepositPercent of the item price is held against a rental.
const DepositPercent = 20

const secondsPerDay = 24 * 60 * 60

type RentalQuote struct {
	Days      int64 `json:"totalDays"`
	TotalRent int64 `json:"totalRent"`
	Deposit   int64 `json:"deposit"`
}

// RentalDays counts started days: any partial day is billed as a full one.
// It works on Unix seconds so spans beyond time.Duration's range are exact.
// Callers must ensure end is after start.
func RentalDays(start, end time.Time) int64 {
	secs := end.Unix() - start.Unix()
	nanos := end.Nanosecond() - start.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 || nanos != 0 {
		days++
	}
	return days
}

// Deposit truncates toward zero. Splitting off the hundreds keeps the
// multiplication in range for any non-negative price.
func Deposit(price int64) int64 {
	return price/100*DepositPercent + price%100*DepositPercent/100
}

func QuoteRental(item models.Item, start, end time.Time) (RentalQuote, error) {
	days := RentalDays(start, end)
	rate := item.DailyRate()
	if rate > 0 && days > math.MaxInt64/rate {
		return RentalQuote{}, invalidf("Rental total is too large")
	}
	return RentalQuote{
		Days:      days,
		TotalRent: rate * days,
		Deposit:   Deposit(item.Price),
	}, nil
}
