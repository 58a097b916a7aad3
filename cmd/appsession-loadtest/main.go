package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	appsession "github.com/mzilio/appsession"
	"github.com/mzilio/appsession/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 100000, "number of sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (state + legacy reconcile)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "sess", "session key prefix")
	)
	flag.Parse()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := appsession.DefaultConfig()
	cfg.Session.RedisPrefix = *prefix
	cfg.Token.LengthBytes = 16

	manager, err := appsession.New().
		WithConfig(cfg).
		WithRedis(client).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "manager build failed: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	store := session.NewStore(client, *prefix, 24*time.Hour, 24*time.Hour)

	// Current-generation records drive the read fast path; legacy records
	// force a token-issue plus rewrite on first touch.
	records := make([]*session.User, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	for i := 0; i < *sessions; i++ {
		u := buildRecord(i)
		records[i] = u
		if err := store.Save(ctx, u); err != nil {
			fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	stateStats := runStatePhase(ctx, manager, records, *ops, *concurrency)
	legacyStats := runLegacyPhase(ctx, manager, store, *sessions, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("state", stateStats)
	printStats("reconcile", legacyStats)

	snapshot := manager.MetricsSnapshot()
	fmt.Printf("upgraded=%d tokens_issued=%d fast_path=%d\n",
		snapshot.Counters[appsession.MetricSessionUpgraded],
		snapshot.Counters[appsession.MetricTokenIssued],
		snapshot.Counters[appsession.MetricSessionStateCurrent],
	)
}

// runStatePhase hammers GetSessionState over fully-populated records: every
// call should take the read-only fast path.
func runStatePhase(ctx context.Context, manager *appsession.Manager, records []*session.User, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(records))
				t0 := time.Now()
				_, err := manager.GetSessionState(ctx, records[idx])
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runLegacyPhase seeds base-generation records and reconciles them under
// contention. The first touch of each record issues tokens and rewrites it;
// repeat touches take the fast path.
func runLegacyPhase(ctx context.Context, manager *appsession.Manager, store *session.Store, sessions, ops, concurrency int) phaseStats {
	legacy := make([]*session.User, sessions)
	for i := 0; i < sessions; i++ {
		u := &session.User{
			SessionID:   fmt.Sprintf("legacy-%d", i),
			FiscalCode:  fmt.Sprintf("LOADT%02d%s", i%100, "A80A01H501X"),
			SpidLevel:   2,
			CreatedAt:   time.Now().Unix(),
			WalletToken: fmt.Sprintf("w-%d", i),
		}
		legacy[i] = u
		if err := store.Save(ctx, u); err != nil {
			fmt.Fprintf(os.Stderr, "legacy save failed: %v\n", err)
			os.Exit(1)
		}
	}

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(legacy))

				// Reconcile from the freshest stored copy so repeat hits
				// observe the upgraded record.
				t0 := time.Now()
				u, err := store.Get(ctx, legacy[idx].SessionID)
				if err == nil {
					_, err = manager.GetSessionState(ctx, u)
				}
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func buildRecord(i int) *session.User {
	return &session.User{
		SessionID:     fmt.Sprintf("sid-%d", i),
		FiscalCode:    fmt.Sprintf("LOADT%02d%s", i%100, "A80A01H501X"),
		SpidLevel:     2,
		CreatedAt:     time.Now().Unix(),
		WalletToken:   fmt.Sprintf("w-%d", i),
		MyPortalToken: fmt.Sprintf("m-%d", i),
		BPDToken:      fmt.Sprintf("b-%d", i),
	}
}
