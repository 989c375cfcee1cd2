package ports

import "context"

// Limiter paces calls to an external provider.
// *golang.org/x/time/rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}
