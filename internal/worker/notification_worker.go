package worker

import (
	"context"

	"github.com/spec-kit/shareit/internal/service"
)

// StartNotificationWorker registers notification handlers and starts forwarding events in the
// background. The returned channel is closed once the worker has drained after ctx ends.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService) <-chan struct{} {
	done := make(chan struct{})
	if notificationService == nil {
		close(done)
		return done
	}
	notificationService.RegisterHandlers()
	go func() {
		defer close(done)
		notificationService.Run(ctx)
	}()
	return done
}
