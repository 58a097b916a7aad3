package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStoreTest(t *testing.T) (*Store, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "sess", time.Hour, time.Hour)
	return store, rdb, func() {
		rdb.Close()
		mr.Close()
	}
}

func testUser() *User {
	return &User{
		SessionID:     "sid-1",
		FiscalCode:    "AAABBB80A01H501X",
		SpidLevel:     2,
		CreatedAt:     time.Now().Unix(),
		WalletToken:   "wallet-1",
		MyPortalToken: "myportal-1",
		BPDToken:      "bpd-1",
	}
}

func TestSaveThenGetRoundTrip(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()
	u := testUser()

	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, u.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *u {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, u)
	}
}

func TestSaveIndexesSessionID(t *testing.T) {
	store, rdb, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()
	u := testUser()

	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}

	members, err := rdb.SMembers(ctx, store.userKey(u.FiscalCode)).Result()
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 1 || members[0] != u.SessionID {
		t.Fatalf("expected index [%s], got %v", u.SessionID, members)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()

	_, err := store.Get(context.Background(), "no-such-session")
	if !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil, got %v", err)
	}
}

func TestGetCorruptBlob(t *testing.T) {
	store, rdb, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := rdb.Set(ctx, store.key("sid-corrupt"), []byte("{not json"), time.Hour).Err(); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	_, err := store.Get(ctx, "sid-corrupt")
	if !errors.Is(err, ErrRecordCorrupt) {
		t.Fatalf("expected corrupt sentinel, got %v", err)
	}
}

func TestUpdatePreservesRemainingTTL(t *testing.T) {
	store, rdb, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()
	u := testUser()

	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}

	u.BPDToken = "bpd-rotated"
	if err := store.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	pttl, err := rdb.PTTL(ctx, store.key(u.SessionID)).Result()
	if err != nil {
		t.Fatalf("pttl: %v", err)
	}
	if pttl <= 0 || pttl > time.Hour {
		t.Fatalf("expected preserved ttl in (0, 1h], got %v", pttl)
	}

	got, err := store.Get(ctx, u.SessionID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.BPDToken != "bpd-rotated" {
		t.Fatalf("expected updated bpd token, got %q", got.BPDToken)
	}
}

func TestUpdateAppliesFallbackTTLWhenKeyHasNone(t *testing.T) {
	store, rdb, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()
	u := testUser()

	data, err := Encode(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Seed without TTL, as a key rewritten by an external tool might be.
	if err := rdb.Set(ctx, store.key(u.SessionID), data, 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := store.Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	pttl, err := rdb.PTTL(ctx, store.key(u.SessionID)).Result()
	if err != nil {
		t.Fatalf("pttl: %v", err)
	}
	if pttl <= 0 {
		t.Fatalf("expected fallback ttl to be applied, got %v", pttl)
	}
}

func TestGetManyReportsMissingIDs(t *testing.T) {
	store, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	first := testUser()
	second := testUser()
	second.SessionID = "sid-2"
	for _, u := range []*User{first, second} {
		if err := store.Save(ctx, u); err != nil {
			t.Fatalf("save %s: %v", u.SessionID, err)
		}
	}

	users, missing, err := store.GetMany(ctx, []string{"sid-1", "sid-gone", "sid-2"})
	if err != nil {
		t.Fatalf("getmany: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 resolved records, got %d", len(users))
	}
	if len(missing) != 1 || missing[0] != "sid-gone" {
		t.Fatalf("expected missing [sid-gone], got %v", missing)
	}
}

func TestDeleteIdempotentAndRemovesIndexEntry(t *testing.T) {
	store, rdb, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()
	u := testUser()

	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, u.FiscalCode, u.SessionID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, u.FiscalCode, u.SessionID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if _, err := store.Get(ctx, u.SessionID); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected record gone, got %v", err)
	}
	members, err := rdb.SMembers(ctx, store.userKey(u.FiscalCode)).Result()
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected empty index, got %v", members)
	}
}

func TestStoreSurfacesRedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := NewStore(rdb, "sess", time.Hour, time.Hour)
	mr.Close()

	ctx := context.Background()
	if err := store.Save(ctx, testUser()); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("save: expected unavailable sentinel, got %v", err)
	}
	if _, err := store.Get(ctx, "sid-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("get: expected unavailable sentinel, got %v", err)
	}
	if _, err := store.SessionIDs(ctx, "AAABBB80A01H501X"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("sessionids: expected unavailable sentinel, got %v", err)
	}
}
