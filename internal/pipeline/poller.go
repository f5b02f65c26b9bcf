package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/robfig/cron/v3"
)

// AlertPublisher writes alerts to the downstream topic.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []domain.DisasterAlert) error
}

// Deduper tracks which alert IDs were already published.
type Deduper interface {
	Unseen(ctx context.Context, ids []string) ([]string, error)
	MarkSeen(ctx context.Context, ids []string) error
}

// AlertPoller periodically extracts the alert feed, keeps new events inside
// India and publishes them. An alert is marked seen only after it was
// published, so a failed run is retried in full on the next tick.
type AlertPoller struct {
	source    domain.AlertSource
	dedup     Deduper
	publisher AlertPublisher
	schedule  string
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	runMu     sync.Mutex
}

// NewAlertPoller creates a poller running on the given cron schedule.
func NewAlertPoller(source domain.AlertSource, dedup Deduper, publisher AlertPublisher, schedule string, logger *slog.Logger, metrics *observability.Metrics) *AlertPoller {
	return &AlertPoller{
		source:    source,
		dedup:     dedup,
		publisher: publisher,
		schedule:  schedule,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a poll has completed successfully.
func (p *AlertPoller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("alert poller has not completed a run yet")
	}
	return nil
}

// Run polls once immediately and then on every schedule tick until the
// context is cancelled. Overlapping ticks are skipped.
func (p *AlertPoller) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cronLogger{p.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{p.logger})),
	)
	if _, err := c.AddFunc(p.schedule, func() { p.poll(ctx) }); err != nil {
		return fmt.Errorf("schedule alert poller %q: %w", p.schedule, err)
	}

	p.logger.Info("alert poller started", "schedule", p.schedule)
	p.metrics.AlertPollerRunning.Set(1)
	defer p.metrics.AlertPollerRunning.Set(0)

	c.Start()
	p.poll(ctx)

	<-ctx.Done()
	<-c.Stop().Done()
	p.logger.Info("alert poller stopping", "reason", ctx.Err())
	return nil
}

func (p *AlertPoller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error("alert poll failed", "error", err)
	}
}

// RunOnce performs a single extract-filter-publish cycle and returns the
// number of alerts published.
func (p *AlertPoller) RunOnce(ctx context.Context) (int, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()
	n, err := p.runOnce(ctx)
	if err != nil {
		p.metrics.AlertPollRuns.WithLabelValues("error").Inc()
		return 0, err
	}
	p.metrics.AlertPollRuns.WithLabelValues("success").Inc()
	p.ready.Store(true)
	p.logger.Info("alert poll complete", "published", n, "duration", time.Since(start))
	return n, nil
}

func (p *AlertPoller) runOnce(ctx context.Context) (int, error) {
	features, err := p.source.FetchAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("extract alerts: %w", err)
	}

	// Generated IDs are positional and would collide across runs.
	identified := make([]domain.AlertFeature, 0, len(features))
	for _, f := range features {
		if f.EventID != "" {
			identified = append(identified, f)
		}
	}
	if skipped := len(features) - len(identified); skipped > 0 {
		p.logger.Debug("skipping alerts without event id", "count", skipped)
	}

	alerts := uniqueByID(domain.FilterIndiaAlerts(identified, domain.Now(), 0))
	if len(alerts) == 0 {
		return 0, nil
	}

	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	unseen, err := p.dedup.Unseen(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("dedup alerts: %w", err)
	}
	if len(unseen) == 0 {
		return 0, nil
	}

	fresh := make([]domain.DisasterAlert, 0, len(unseen))
	want := make(map[string]bool, len(unseen))
	for _, id := range unseen {
		want[id] = true
	}
	for _, a := range alerts {
		if want[a.ID] {
			fresh = append(fresh, a)
		}
	}

	if err := p.publisher.PublishAlerts(ctx, fresh); err != nil {
		return 0, fmt.Errorf("publish alerts: %w", err)
	}
	if err := p.dedup.MarkSeen(ctx, unseen); err != nil {
		return len(fresh), fmt.Errorf("mark alerts seen: %w", err)
	}
	return len(fresh), nil
}

// uniqueByID drops repeated IDs, keeping the first occurrence.
func uniqueByID(alerts []domain.DisasterAlert) []domain.DisasterAlert {
	seen := make(map[string]bool, len(alerts))
	out := alerts[:0]
	for _, a := range alerts {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
