package appsession

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mzilio/appsession/session"
	"github.com/redis/go-redis/v9"
)

const testTokenLengthBytes = 16

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.LengthBytes = testTokenLengthBytes
	cfg.Session.TTL = time.Hour
	cfg.Session.DurationFallback = time.Hour
	return cfg
}

func newManagerTest(t *testing.T) (*Manager, *miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	manager, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("build manager: %v", err)
	}

	return manager, mr, rdb, func() {
		manager.Close()
		rdb.Close()
		mr.Close()
	}
}

func newManagerTestWithSink(t *testing.T, cfg Config, sink AuditSink) (*Manager, *miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	manager, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build manager: %v", err)
	}

	return manager, mr, rdb, func() {
		manager.Close()
		rdb.Close()
		mr.Close()
	}
}

// seedRecord writes a record straight into Redis, bypassing the manager,
// so tests control exactly which generation the store holds.
func seedRecord(t *testing.T, rdb *redis.Client, prefix string, u *session.User) {
	t.Helper()
	data, err := session.Encode(u)
	if err != nil {
		t.Fatalf("encode seed record: %v", err)
	}
	ctx := context.Background()
	if err := rdb.Set(ctx, prefix+":"+u.SessionID, data, time.Hour).Err(); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if err := rdb.SAdd(ctx, prefix+"u:"+u.FiscalCode, u.SessionID).Err(); err != nil {
		t.Fatalf("seed index: %v", err)
	}
}

func v1Record(sessionID, fiscalCode string) *session.User {
	return &session.User{
		SessionID:  sessionID,
		FiscalCode: fiscalCode,
		SpidLevel:  2,
		CreatedAt:  time.Now().Unix(),
	}
}
