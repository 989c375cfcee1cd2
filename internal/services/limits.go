package services

import (
	"time"

	"golang.org/x/time/rate"
)

// Provider pacing. The free geocoder's usage policy allows one request per second.
const (
	PaidGeocodeInterval = 50 * time.Millisecond
	FreeGeocodeInterval = time.Second
	MatrixBatchInterval = 200 * time.Millisecond
)

// NewIntervalLimiter allows one call immediately and then one per interval.
func NewIntervalLimiter(every time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(every), 1)
}

// Unlimited never blocks; used when no pacing is configured and in tests.
func Unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}
