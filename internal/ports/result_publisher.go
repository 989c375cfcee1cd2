package ports

import (
	"context"
	"crew-route-service/internal/domain"
)

// Hands a finished result to the dispatch/notification collaborator.
type ResultPublisher interface {
	PublishResult(ctx context.Context, result *domain.OptimizationResult) error
}
