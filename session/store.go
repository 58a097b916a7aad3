package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis transport failure surfaced by [Store].
var ErrRedisUnavailable = errors.New("redis unavailable")

const deleteSessionScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
end
return existed
`

var deleteSessionLua = redis.NewScript(deleteSessionScript)

// Store is a Redis-backed session record store. It owns two key families:
// one JSON record per session ID, and one set of session IDs per fiscal
// code (the identity-to-sessions index).
//
// Store performs no cross-key transactions beyond the save pipeline and the
// delete script; record upgrades rewrite exactly one key.
type Store struct {
	redis   redis.UniversalClient
	prefix  string
	saveTTL time.Duration
	// fallbackTTL bounds an Update whose target key reports no remaining
	// TTL, so a rewrite can never make a record immortal.
	fallbackTTL time.Duration
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace; saveTTL is the lifetime of newly
// created records, fallbackTTL the lifetime applied when an updated key
// has lost its TTL.
func NewStore(redis redis.UniversalClient, prefix string, saveTTL, fallbackTTL time.Duration) *Store {
	if prefix == "" {
		prefix = "sess"
	}
	return &Store{
		redis:       redis,
		prefix:      prefix,
		saveTTL:     saveTTL,
		fallbackTTL: fallbackTTL,
	}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *Store) userKey(fiscalCode string) string {
	return s.prefix + "u:" + fiscalCode
}

// Save persists a new [User] record and adds its session ID to the
// identity index, in one transactional pipeline.
func (s *Store) Save(ctx context.Context, u *User) error {
	data, err := Encode(u)
	if err != nil {
		return err
	}

	sessionKey := s.key(u.SessionID)
	userKey := s.userKey(u.FiscalCode)

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey, data, s.saveTTL)
		pipe.SAdd(ctx, userKey, u.SessionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a record by session ID. Absence is reported as [redis.Nil].
func (s *Store) Get(ctx context.Context, sessionID string) (*User, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	u, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update rewrites an existing record in place, preserving the key's
// remaining TTL. A key that reports no TTL gets the fallback lifetime.
// The write targets exactly one key; last write wins under concurrency.
func (s *Store) Update(ctx context.Context, u *User) error {
	data, err := Encode(u)
	if err != nil {
		return err
	}

	key := s.key(u.SessionID)
	pttl, err := s.redis.PTTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if pttl <= 0 {
		pttl = s.fallbackTTL
	}

	if err := s.redis.Set(ctx, key, data, pttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// SessionIDs returns the tracked session IDs for a fiscal code, in index
// enumeration order. An absent index is an empty slice, not an error.
func (s *Store) SessionIDs(ctx context.Context, fiscalCode string) ([]string, error) {
	ids, err := s.redis.SMembers(ctx, s.userKey(fiscalCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return ids, nil
}

// GetMany fetches multiple records with one pipelined round-trip. Session
// IDs that do not resolve to a record are reported in missing rather than
// silently skipped: the caller decides whether a hole is fatal.
func (s *Store) GetMany(ctx context.Context, sessionIDs []string) ([]*User, []string, error) {
	if len(sessionIDs) == 0 {
		return []*User{}, nil, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(sessionIDs))
	for i, sid := range sessionIDs {
		cmds[i] = pipe.Get(ctx, s.key(sid))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	users := make([]*User, 0, len(sessionIDs))
	var missing []string
	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				missing = append(missing, sessionIDs[i])
				continue
			}
			return nil, nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, cmdErr)
		}

		u, decErr := Decode(data)
		if decErr != nil {
			return nil, nil, decErr
		}
		users = append(users, u)
	}

	return users, missing, nil
}

// Delete removes a record and its index entry atomically. Deleting an
// absent session is a no-op, not an error.
func (s *Store) Delete(ctx context.Context, fiscalCode, sessionID string) error {
	keys := []string{s.key(sessionID), s.userKey(fiscalCode)}
	if _, err := deleteSessionLua.Run(ctx, s.redis, keys, sessionID).Result(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
