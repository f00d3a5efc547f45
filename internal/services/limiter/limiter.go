package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRateLimitExceeded means the key's quota is exhausted; the protected
// operation must not run.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

const recordTimeout = 5 * time.Second

// Limiter enforces per-key call quotas. The quota check and the usage
// increment are one conditional statement in the store, so concurrent calls
// against the same key cannot lose updates or overshoot the limit.
type Limiter struct {
	keys   repository.IAPIKeyRepository
	events repository.IUsageEventRepository
	pool   *workerpool.WorkerPool
	logger *zap.Logger
}

func New(keys repository.IAPIKeyRepository, events repository.IUsageEventRepository, logger *zap.Logger) *Limiter {
	return &Limiter{
		keys:   keys,
		events: events,
		pool:   workerpool.New(4),
		logger: logger,
	}
}

// Allow accounts one call against the key's quota. On success it also
// queues a best-effort audit event; a failure to record the event is
// logged and never affects the decision.
func (l *Limiter) Allow(ctx context.Context, keyID uuid.UUID, operation string) error {
	ok, err := l.keys.IncrementUsageWithin(ctx, keyID)
	if err != nil {
		// Fail closed.
		l.logger.Error("usage accounting failed", zap.String("key_id", keyID.String()), zap.Error(err))
		return err
	}
	if !ok {
		return ErrRateLimitExceeded
	}

	l.recordEvent(keyID, operation)
	return nil
}

func (l *Limiter) recordEvent(keyID uuid.UUID, operation string) {
	if l.events == nil {
		return
	}

	l.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if _, err := l.events.Create(ctx, models.NewUsageEvent(keyID, operation)); err != nil {
			l.logger.Error("failed to record usage event",
				zap.String("key_id", keyID.String()),
				zap.String("operation", operation),
				zap.Error(err))
		}
	})
}

// Close drains the audit queue. Pending events are written before return.
func (l *Limiter) Close() {
	l.pool.StopWait()
}
