package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tally/pkg/domain"
)

// NewTracer returns hooks that log each action and the state it produced.
func NewTracer(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.InfoContext(ctx, "action",
				"trace_id", e.TraceID,
				"type", e.Action.Type,
				"payload", e.Action.Payload,
			)
			logger.DebugContext(ctx, "state",
				"trace_id", e.TraceID,
				"count", e.Next.Count,
				"other_property", e.Next.OtherProperty,
				"changed", e.Changed(),
			)
		},
	}
}
