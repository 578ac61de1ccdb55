package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/repository"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// Clock supplies the current time to services.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock {
	return realClock{}
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return realClock{}
	}
	return c
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// eventEmitter stamps and dispatches domain events for a service.
type eventEmitter struct {
	dispatcher events.Dispatcher
	clock      Clock
	logger     *zap.Logger
}

func (e eventEmitter) publish(ctx context.Context, event events.Event) {
	if e.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.clock.Now()
	}
	if err := e.dispatcher.Publish(ctx, event); err != nil {
		e.logger.Warn("event handlers failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// notFound converts a repository miss into a NotFound domain error and passes other errors on.
func notFound(err error, resource string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
