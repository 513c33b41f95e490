package domains

import (
	"context"

	"github.com/SKR-SG/ASP/internal/domains/job"
)

// Engine is the sync surface the queue handlers drive.
type Engine interface {
	Run(ctx context.Context, platform string) error
	PublishOrder(ctx context.Context, platform, externalNo string) error
}

// HandlerFunc handles one decoded job.
type HandlerFunc func(ctx context.Context, eng Engine, meta *job.Meta) error

// HandlerMap routes action types to handlers.
var HandlerMap = map[string]HandlerFunc{
	job.ActionPlatformReconcile: handleReconcile,
	job.ActionCargoPublish:      handlePublish,
}

func handleReconcile(ctx context.Context, eng Engine, meta *job.Meta) error {
	return eng.Run(ctx, meta.Platform)
}

func handlePublish(ctx context.Context, eng Engine, meta *job.Meta) error {
	return eng.PublishOrder(ctx, meta.Platform, meta.ExternalNo)
}
