package worker

import (
	"context"
	"time"

	"jvdveen/dealwatch/logger"
)

// Refresher re-checks stored deals and reports a result message per deal
type Refresher interface {
	Refresh(ctx context.Context, ids []string) (map[string]string, error)
}

// Worker runs periodic refresh passes over the whole deal collection
type Worker struct {
	ctx             context.Context
	refresher       Refresher
	refreshInterval time.Duration
	log             *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, refresher Refresher, refreshInterval time.Duration) *Worker {
	return &Worker{
		ctx:             ctx,
		refresher:       refresher,
		refreshInterval: refreshInterval,
		log:             logger.ForWorker(),
	}
}

// Start runs an immediate refresh pass and then one per interval until the
// context is cancelled. A non-positive interval disables the worker.
func (w *Worker) Start() {
	if w.refreshInterval <= 0 {
		w.log.Info().Msg("Periodic refresh disabled")
		return
	}

	w.runPass()

	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info().Msg("Worker stopping")
			return
		case <-ticker.C:
			w.runPass()
		}
	}
}

// runPass refreshes every deal and logs the outcome
func (w *Worker) runPass() {
	start := time.Now()

	results, err := w.refresher.Refresh(w.ctx, nil)
	if err != nil {
		w.log.Error().Err(err).Msg("Refresh pass failed")
		return
	}

	w.log.Info().
		Int("deal_count", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Refresh pass complete")
}
