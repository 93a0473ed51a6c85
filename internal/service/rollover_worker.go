package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/rs/zerolog"
)

// RolloverWorker is a background worker that creates each new month's actuals from the budget template
type RolloverWorker struct {
	actualsService *ActualsService
	logger         zerolog.Logger
	interval       time.Duration
	now            func() time.Time
	stopCh         chan struct{}
	doneCh         chan struct{}
	mu             sync.Mutex
	running        bool
}

// RolloverResult summarizes one rollover pass
type RolloverResult struct {
	Period  domain.Period
	Created int
	Skipped int
	Errors  int
}

// NewRolloverWorker creates a new rollover worker
func NewRolloverWorker(actualsService *ActualsService, logger zerolog.Logger, interval time.Duration) *RolloverWorker {
	if interval <= 0 {
		interval = time.Hour
	}

	return &RolloverWorker{
		actualsService: actualsService,
		logger:         logger.With().Str("component", "rollover_worker").Logger(),
		interval:       interval,
		now:            time.Now,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background rollover checks
func (w *RolloverWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting rollover worker")

	go w.run(ctx)
}

// Stop gracefully stops the rollover worker
func (w *RolloverWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping rollover worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Rollover worker stopped")
}

func (w *RolloverWorker) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	// Run immediately on startup
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce creates the current month for every budget type that has none yet
func (w *RolloverWorker) RunOnce(ctx context.Context) RolloverResult {
	result := RolloverResult{Period: domain.CurrentPeriod(w.now())}

	for _, budgetType := range domain.BudgetTypes() {
		if ctx.Err() != nil {
			w.logger.Info().Msg("Context cancelled, stopping rollover")
			return result
		}

		created, err := w.actualsService.EnsureMonth(ctx, budgetType, result.Period)
		if err != nil {
			w.logger.Error().
				Err(err).
				Str("budget_type", budgetType.String()).
				Str("period", result.Period.String()).
				Msg("Failed to create month")
			result.Errors++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	w.logger.Debug().
		Str("period", result.Period.String()).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Msg("Completed rollover check")
	return result
}

// IsRunning returns whether the worker is currently running
func (w *RolloverWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
