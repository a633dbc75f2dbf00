package purchase

import (
	"context"
	"fmt"
	"time"

	"examprep/internal/catalog"
	"examprep/internal/logger"
	"examprep/internal/metrics"
)

// Reconciler flips ACTIVE purchases past their expiry to EXPIRED.
// Access checks never depend on it; it keeps stored status truthful and sends expiry notices.
type Reconciler struct {
	repo     Repository
	catalog  Catalog
	notifier Notifier
	interval time.Duration
	now      func() time.Time
}

func NewReconciler(repo Repository, catalog Catalog, notifier Notifier, interval time.Duration) *Reconciler {
	return &Reconciler{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
	}
}

func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	expired, err := r.repo.ExpireStale(ctx, r.now().UTC())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	metrics.RecordExpired(len(expired))
	logger.Info("purchases expired", "count", len(expired))

	if r.notifier == nil {
		return len(expired), nil
	}

	titles := make(map[int]string)
	for _, rec := range expired {
		title, ok := titles[rec.ItemID]
		if !ok {
			title = r.planTitle(ctx, rec.ItemID)
			titles[rec.ItemID] = title
		}
		if err := r.notifier.SendExpiryNotice(ctx, rec.UserID, title, rec.ExpiryDate); err != nil {
			logger.Warn("expiry notice not queued", "purchase_id", rec.ID, "error", err)
		}
	}

	return len(expired), nil
}

func (r *Reconciler) planTitle(ctx context.Context, planID int) string {
	plan, err := r.catalog.GetItem(ctx, catalog.ItemExamPlan, planID)
	if err != nil {
		return fmt.Sprintf("exam plan #%d", planID)
	}
	return plan.Title
}

// Start runs RunOnce immediately and then every interval until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	logger.Info("purchase reconciler started", "interval", r.interval.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Error("purchase reconciliation failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("purchase reconciler stopped")
			return
		case <-ticker.C:
		}
	}
}
