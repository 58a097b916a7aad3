package appsession

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricSessionUpgraded)

	if got := m.Value(MetricSessionUpgraded); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricSessionUpgraded)
	m.Inc(MetricSessionUpgraded)
	m.Inc(MetricSessionUpgraded)

	if got := m.Value(MetricSessionUpgraded); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricTokenIssued)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricTokenIssued); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}

	for _, d := range observations {
		m.Observe(MetricReconcileLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricReconcileLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}

	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
}

func TestMetricsSnapshotConsistency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Inc(MetricSessionStateCurrent)
	m.Inc(MetricSessionUpgraded)
	m.Inc(MetricSessionUpgraded)
	m.Observe(MetricReconcileLatency, 2*time.Millisecond)

	snap := m.Snapshot()

	if snap.Counters[MetricSessionStateCurrent] != 1 {
		t.Fatalf("expected MetricSessionStateCurrent=1 got %d", snap.Counters[MetricSessionStateCurrent])
	}
	if snap.Counters[MetricSessionUpgraded] != 2 {
		t.Fatalf("expected MetricSessionUpgraded=2 got %d", snap.Counters[MetricSessionUpgraded])
	}
	if len(snap.Histograms[MetricReconcileLatency]) != 8 {
		t.Fatalf("expected histogram length 8")
	}
	if snap.Histograms[MetricReconcileLatency][0] != 1 {
		t.Fatalf("expected first histogram bucket=1 got %d", snap.Histograms[MetricReconcileLatency][0])
	}
}

func TestManagerCountsFastPathReads(t *testing.T) {
	manager, _, _, done := newManagerTest(t)
	defer done()

	ctx := context.Background()
	user, err := manager.CreateSession(ctx, "AAABBB80A01H501X", 2)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	const reads = 5
	for i := 0; i < reads; i++ {
		if _, err := manager.GetSessionState(ctx, user); err != nil {
			t.Fatalf("GetSessionState failed: %v", err)
		}
	}

	snap := manager.MetricsSnapshot()
	if got := snap.Counters[MetricSessionStateCurrent]; got != reads {
		t.Fatalf("expected %d fast-path reads, got %d", reads, got)
	}
	if got := snap.Counters[MetricSessionUpgraded]; got != 0 {
		t.Fatalf("expected no upgrades for a current-generation record, got %d", got)
	}
}
