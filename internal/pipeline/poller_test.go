package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/couchcryptid/disaster-risk-service/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	mu       sync.Mutex
	features []domain.AlertFeature
	err      error
	calls    int
}

func (m *mockSource) FetchAlerts(_ context.Context) ([]domain.AlertFeature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.features, m.err
}

func (m *mockSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockPublisher struct {
	mu        sync.Mutex
	published [][]domain.DisasterAlert
	err       error
}

func (m *mockPublisher) PublishAlerts(_ context.Context, alerts []domain.DisasterAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, alerts)
	return nil
}

func (m *mockPublisher) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, batch := range m.published {
		for _, a := range batch {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var indiaFeed = []domain.AlertFeature{
	{EventID: "1000987", Name: "Cyclone REMAL", EventType: "TC", Coordinates: []float64{88.36, 22.57}},
	{EventID: "2001", Name: "Tokyo quake", EventType: "EQ", Coordinates: []float64{139.7, 35.6}},
	{EventID: "1102", Name: "Assam flood", EventType: "FL", Coordinates: []float64{92.9, 26.2}},
	{Name: "No id", EventType: "DR", Coordinates: []float64{77.2, 28.6}},
	{EventID: "1102", Name: "Assam flood (dup)", EventType: "FL", Coordinates: []float64{92.9, 26.2}},
}

// --- tests ---

func TestAlertPoller_RunOnce_PublishesNewIndiaAlerts(t *testing.T) {
	src := &mockSource{features: indiaFeed}
	pub := &mockPublisher{}
	metrics := newTestMetrics()
	p := pipeline.NewAlertPoller(src, pipeline.NewMemoryDeduper(100, time.Hour), pub, "@every 1m", discardLogger(), metrics)

	require.Error(t, p.CheckReadiness(context.Background()))

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	if diff := cmp.Diff([]string{"1000987", "1102"}, pub.ids()); diff != "" {
		t.Errorf("published ids mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.AlertPollRuns.WithLabelValues("success")), 0)
}

func TestAlertPoller_RunOnce_PublishesEachIDOnce(t *testing.T) {
	src := &mockSource{features: indiaFeed}
	pub := &mockPublisher{}
	p := pipeline.NewAlertPoller(src, pipeline.NewMemoryDeduper(100, time.Hour), pub, "@every 1m", discardLogger(), newTestMetrics())

	_, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, pub.published, 1, "second run has nothing new to publish")
}

func TestAlertPoller_RunOnce_PublishFailureMarksNothing(t *testing.T) {
	src := &mockSource{features: indiaFeed}
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	metrics := newTestMetrics()
	p := pipeline.NewAlertPoller(src, pipeline.NewMemoryDeduper(100, time.Hour), pub, "@every 1m", discardLogger(), metrics)

	_, err := p.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish alerts")
	require.Error(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.AlertPollRuns.WithLabelValues("error")), 0)

	pub.err = nil
	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n, "alerts are retried after a failed publish")
}

func TestAlertPoller_RunOnce_ExtractError(t *testing.T) {
	src := &mockSource{err: errors.New("gdacs timeout")}
	pub := &mockPublisher{}
	p := pipeline.NewAlertPoller(src, pipeline.NewMemoryDeduper(100, time.Hour), pub, "@every 1m", discardLogger(), newTestMetrics())

	_, err := p.RunOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, pub.published)
}

func TestAlertPoller_RunOnce_EmptyFeedIsReady(t *testing.T) {
	p := pipeline.NewAlertPoller(&mockSource{}, pipeline.NewMemoryDeduper(100, time.Hour), &mockPublisher{}, "@every 1m", discardLogger(), newTestMetrics())

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func TestAlertPoller_Run_ContextCancellation(t *testing.T) {
	src := &mockSource{features: indiaFeed}
	pub := &mockPublisher{}
	metrics := newTestMetrics()
	p := pipeline.NewAlertPoller(src, pipeline.NewMemoryDeduper(100, time.Hour), pub, "@every 1h", discardLogger(), metrics)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.callCount(), "runs once immediately")
	assert.Len(t, pub.ids(), 2)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.AlertPollerRunning), 0)
}

func TestAlertPoller_Run_InvalidSchedule(t *testing.T) {
	p := pipeline.NewAlertPoller(&mockSource{}, pipeline.NewMemoryDeduper(10, time.Hour), &mockPublisher{}, "every now and then", discardLogger(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule alert poller")
}

func TestMemoryDeduper_Expiry(t *testing.T) {
	d := pipeline.NewMemoryDeduper(10, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, d.MarkSeen(ctx, []string{"a"}))
	unseen, err := d.Unseen(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, unseen)

	assert.Eventually(t, func() bool {
		unseen, err := d.Unseen(ctx, []string{"a", "b"})
		return err == nil && len(unseen) == 2
	}, 2*time.Second, 10*time.Millisecond, "mark should expire after the ttl")
}

func TestMemoryDeduper_Eviction(t *testing.T) {
	d := pipeline.NewMemoryDeduper(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, d.MarkSeen(ctx, []string{"a", "b", "c"}))
	unseen, err := d.Unseen(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, unseen, "oldest mark is evicted")
}
