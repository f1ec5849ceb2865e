package worker

import (
	"context"
	"fmt"

	"stackvault/internal/usecase"
	"stackvault/pkg/logger"
	"stackvault/pkg/queue"
)

type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// statsEvents change at least one number on the admin dashboard.
var statsEvents = map[string]bool{
	usecase.EventUserCreated:      true,
	usecase.EventProductSubmitted: true,
	usecase.EventProductUpdated:   true,
	usecase.EventProductModerated: true,
	usecase.EventProductDeleted:   true,
	usecase.EventPaymentRecorded:  true,
	usecase.EventReviewCreated:    true,
}

type StatsInvalidator struct {
	cache  CacheInvalidator
	logger *logger.Logger
}

func NewStatsInvalidator(cache CacheInvalidator, logger *logger.Logger) *StatsInvalidator {
	return &StatsInvalidator{cache: cache, logger: logger}
}

// Handle drops cached statistics when msg affects them. Other events are acked untouched.
func (w *StatsInvalidator) Handle(ctx context.Context, msg queue.Message) error {
	if !statsEvents[msg.Type] {
		return nil
	}

	if err := w.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to invalidate statistics after %s: %w", msg.Type, err)
	}

	w.logger.Info("[WORKER] Statistics cache invalidated by event=%s", msg.Type)
	return nil
}
