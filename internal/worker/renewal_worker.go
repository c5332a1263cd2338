package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher) {
	if notificationService == nil || dispatcher == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}

// StartRenewalWorker runs the renewal scan on a timer until the context is
// cancelled. One scan fires immediately on startup so a restart never delays
// notices by a full interval.
func StartRenewalWorker(ctx context.Context, policyService *service.PolicyService, interval time.Duration, logger *zap.Logger) {
	if policyService == nil || interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		scan := func() {
			if _, err := policyService.CheckRenewals(ctx); err != nil {
				logger.Error("renewal scan failed", zap.Error(err))
			}
		}

		scan()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scan()
			}
		}
	}()
}
