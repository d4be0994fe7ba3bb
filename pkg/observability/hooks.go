package observability

import (
	"context"
	"log/slog"

	"github.com/anurags10/medibook/pkg/domain"
)

// LoggingHooks logs every step change and remote call.
// Only intents, steps and operation names are logged, never patient data.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.Info("step_enter",
				"intent", e.Intent,
				"from", e.FromStep,
				"to", e.ToStep,
			)
		},
		OnRemoteCall: func(ctx context.Context, e *domain.RemoteEvent) {
			logger.Info("remote_call", "op", e.Op, "intent", e.Intent)
		},
		OnRemoteReturn: func(ctx context.Context, e *domain.RemoteEvent) {
			if e.Err != nil {
				logger.Warn("remote_return",
					"op", e.Op,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.Info("remote_return", "op", e.Op, "duration", e.Duration)
		},
	}
}
