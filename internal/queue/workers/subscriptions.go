package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

type SubscriptionStore interface {
	ExpireSubscriptions(ctx context.Context, asOf time.Time) (int64, error)
}

// SubscriptionWorker runs the periodic sweep that turns off
// subscriptions whose expiry has passed. The access gate already treats
// an expired subscription as inactive; the sweep keeps the stored flag
// in line with it.
type SubscriptionWorker struct {
	store SubscriptionStore
}

func NewSubscriptionWorker(st SubscriptionStore) *SubscriptionWorker {
	return &SubscriptionWorker{store: st}
}

func (w *SubscriptionWorker) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	n, err := w.store.ExpireSubscriptions(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("subscriptions expired", "count", n)
	}
	return nil
}
