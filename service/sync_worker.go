package service

import (
	"context"
	"fmt"
	"time"

	"bookie/models"

	log "github.com/sirupsen/logrus"
)

// SyncWorker periodically pulls a feed snapshot and reconciles the market
// store against it.
type SyncWorker struct {
	fetcher    SnapshotFetcher
	reconciler ReconcileService
	interval   time.Duration
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(fetcher SnapshotFetcher, reconciler ReconcileService, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		fetcher:    fetcher,
		reconciler: reconciler,
		interval:   interval,
	}
}

// Start begins the periodic sync loop, running one sync right away so a
// fresh deployment has markets before the first interval elapses. The
// returned function stops the worker.
func (w *SyncWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Market sync worker started, syncing every %v", w.interval)

		if _, err := w.RunOnce(ctx); err != nil {
			log.Errorf("Initial market sync failed: %v", err)
		}

		for {
			select {
			case <-ctx.Done():
				log.Info("Market sync worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Market sync worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
				if _, err := w.RunOnce(ctx); err != nil {
					log.Errorf("Market sync failed: %v", err)
				}
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

// RunOnce performs a single fetch and reconcile pass. A failed fetch stops
// the pass before reconciliation, so markets never close because the feed
// was unreachable. An empty snapshot is treated the same way: absence of
// every market at once means a broken fetch, not a hundred finished races.
func (w *SyncWorker) RunOnce(ctx context.Context) (*models.ReconcileResult, error) {
	snapshot, err := w.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market snapshot: %w", err)
	}

	if len(snapshot) == 0 {
		log.Warn("Feed returned no markets, skipping reconciliation")
		return &models.ReconcileResult{}, nil
	}

	result, err := w.reconciler.Reconcile(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile markets: %w", err)
	}

	return result, nil
}
