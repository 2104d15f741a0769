package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/josh-kwaku/wallet-ledger/internal/metrics"
)

const purgeBatchSize = 500

// IdempotencyJanitor periodically deletes expired idempotency records.
type IdempotencyJanitor struct {
	records  idempotencyPurger
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewIdempotencyJanitor(records idempotencyPurger, logger *slog.Logger, interval time.Duration) *IdempotencyJanitor {
	return &IdempotencyJanitor{
		records:  records,
		logger:   logger,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (j *IdempotencyJanitor) Start(ctx context.Context) {
	j.logger.Info("idempotency janitor started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("idempotency janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep deletes in batches until a batch comes back short.
func (j *IdempotencyJanitor) sweep(ctx context.Context) int64 {
	cutoff := j.now()
	var total int64
	for ctx.Err() == nil {
		n, err := j.records.PurgeExpired(ctx, cutoff, purgeBatchSize)
		if err != nil {
			j.logger.Error("failed to purge idempotency records", "error", err)
			break
		}
		total += n
		if n < purgeBatchSize {
			break
		}
	}

	if total > 0 {
		metrics.RecordIdempotencyPurge(total)
		j.logger.Info("purged idempotency records", "count", total)
	}
	return total
}
