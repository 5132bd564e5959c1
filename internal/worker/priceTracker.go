package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"price_tracker/pkg/contextx"
	"price_tracker/pkg/logx"
)

const DefaultInterval = time.Minute

type Engine interface {
	Cycle(ctx context.Context) []string
	Complete(ctx context.Context) error
}

type Notifier interface {
	SendText(ctx context.Context, text string) error
}

type Inventory interface {
	Len() int
}

// PriceTracker runs update cycles one after another, at most once per
// interval, and delivers what they produce.
type PriceTracker struct {
	engine    Engine
	notifier  Notifier
	inventory Inventory
	metrics   *Metrics
	interval  time.Duration

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewPriceTracker(engine Engine, notifier Notifier, inventory Inventory) *PriceTracker {
	return &PriceTracker{
		engine:    engine,
		notifier:  notifier,
		inventory: inventory,
		interval:  DefaultInterval,
	}
}

func (w *PriceTracker) WithInterval(d time.Duration) *PriceTracker {
	if d > 0 {
		w.interval = d
	}
	return w
}

func (w *PriceTracker) WithMetrics(m *Metrics) *PriceTracker {
	w.metrics = m
	return w
}

// Start запускает цикл в фоне.
func (w *PriceTracker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("price tracker is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("price tracker stopped", logx.Error(err))
		}
	}()

	return nil
}

// Stop останавливает цикл и ждёт завершения текущей итерации.
func (w *PriceTracker) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *PriceTracker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *PriceTracker) Run(ctx context.Context) error {
	logger(ctx).Info("price tracker started", slog.Duration("interval", w.interval))

	for {
		started := time.Now()

		w.tick(ctx)

		wait := max(w.interval-time.Since(started), 0)

		logger(ctx).Debug("waiting for next cycle", slog.Duration(logx.FieldWait, wait))

		select {
		case <-ctx.Done():
			logger(ctx).Info("price tracker stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (w *PriceTracker) tick(ctx context.Context) {
	ctx, _ = contextx.StartTrace(ctx, "", logx.FieldTraceID)
	started := time.Now()
	result := resultQuiet

	defer func() {
		if r := recover(); r != nil {
			result = resultPanicked
			logger(ctx).Error("update cycle panicked",
				logx.Error(fmt.Errorf("panic: %v", r)),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)
		}

		w.observe(result, time.Since(started))
	}()

	lines := w.engine.Cycle(ctx)
	if len(lines) == 0 {
		logger(ctx).Debug("update cycle quiet", slog.Duration("took", time.Since(started)))
		return
	}

	message := strings.Join(lines, "\n")
	result = resultNotified

	if w.metrics != nil {
		w.metrics.lines.Add(float64(len(lines)))
	}

	if err := w.engine.Complete(ctx); err != nil {
		result = resultFailed
		logger(ctx).Error("failed to persist update cycle", logx.Error(err))
	}

	logger(ctx).Debug("sending notification", slog.Int(logx.FieldLines, len(lines)))

	if err := w.notifier.SendText(ctx, message); err != nil {
		result = resultFailed
		logger(ctx).Error("failed to deliver notification", logx.Error(err), slog.Int(logx.FieldLines, len(lines)))

		if w.metrics != nil {
			w.metrics.deliveriesFailed.Inc()
		}
	}
}

func (w *PriceTracker) observe(result string, took time.Duration) {
	if w.metrics == nil {
		return
	}

	w.metrics.cycles.WithLabelValues(result).Inc()
	w.metrics.cycleDuration.Observe(took.Seconds())

	if w.inventory != nil {
		w.metrics.trackedItems.Set(float64(w.inventory.Len()))
	}
}
