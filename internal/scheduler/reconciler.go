package scheduler

import (
	"context"
	"time"

	"github.com/scenegallery/scenegallery/internal/collection"
	"github.com/scenegallery/scenegallery/internal/logger"
)

// Reconciler keeps the collection store aligned with the remote store:
// a periodic background reconcile plus a manual trigger fed by the
// reload endpoint.
type Reconciler struct {
	store         *collection.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewReconciler creates a new reconciler.
func NewReconciler(
	store *collection.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Reconciler {
	return &Reconciler{
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the initial hydration, then reconciles on every tick and
// on every manual trigger until stopped. The initial hydration error is
// not fatal: the store settles into its offline or error state and the
// ticker keeps trying.
func (r *Reconciler) Start(ctx context.Context) error {
	if err := r.store.Hydrate(ctx, false); err != nil {
		r.logger.Error("initial hydration failed", logger.Error(err))
	}
	r.store.LoadCategories(ctx)
	if err := r.store.LoadBookmarks(ctx); err != nil {
		r.logger.Warn("initial bookmark load failed", logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reconcile(ctx)
			case <-r.manualTrigger:
				r.logger.Info("manual reload triggered")
				if err := r.store.Hydrate(ctx, true); err != nil {
					r.logger.Error("forced hydration failed", logger.Error(err))
				}
				r.store.LoadCategories(ctx)
				if err := r.store.LoadBookmarks(ctx); err != nil {
					r.logger.Warn("bookmark reload failed", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reconciler.
func (r *Reconciler) Stop() {
	close(r.stopCh)
}

func (r *Reconciler) reconcile(ctx context.Context) {
	if err := r.store.Reconcile(ctx); err != nil {
		r.logger.Warn("periodic reconcile failed", logger.Error(err))
	}
}
