package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v2"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts verification attempts per key inside a fixed window
// that starts with the first attempt. Take reserves an attempt before the code
// is compared, so concurrent guesses can't all slip past the check
type AttemptLimiter interface {
	// Take counts one attempt and reports whether it may go ahead. Every
	// attempt past max inside the window is refused
	Take(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// attemptIncrLua returns the attempt count including the one just taken. The
// window is only set by the first attempt so later ones don't extend it
const attemptIncrLua = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`

type RedisAttempts struct {
	rdb    *redis.Client
	prefix string
	max    int64
	window time.Duration
	script *redis.Script
}

func NewRedisAttempts(rdb *redis.Client, max int, window time.Duration) *RedisAttempts {
	return &RedisAttempts{
		rdb:    rdb,
		prefix: "portal:verify:attempts:",
		max:    int64(max),
		window: window,
		script: redis.NewScript(attemptIncrLua),
	}
}

func (r *RedisAttempts) Take(ctx context.Context, key string) (bool, error) {
	n, err := r.script.Run(ctx, r.rdb, []string{r.prefix + key}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}

	return n <= r.max, nil
}

func (r *RedisAttempts) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

// MemoryAttempts is the single-process fallback used when no redis is
// configured
type MemoryAttempts struct {
	mu     sync.Mutex
	cache  *ttlcache.Cache
	max    int
	window time.Duration
}

type attemptCount struct {
	n int
}

func NewMemoryAttempts(max int, window time.Duration) *MemoryAttempts {
	c := ttlcache.NewCache()
	c.SkipTTLExtensionOnHit(true)

	return &MemoryAttempts{
		cache:  c,
		max:    max,
		window: window,
	}
}

func (m *MemoryAttempts) Take(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.cache.Get(key)
	if errors.Is(err, ttlcache.ErrNotFound) {
		if err := m.cache.SetWithTTL(key, &attemptCount{n: 1}, m.window); err != nil {
			return false, err
		}

		return m.max >= 1, nil
	}

	if err != nil {
		return false, err
	}

	c := v.(*attemptCount)
	c.n++

	return c.n <= m.max, nil
}

func (m *MemoryAttempts) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.cache.Remove(key); err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
		return err
	}

	return nil
}

func (m *MemoryAttempts) Close() error {
	return m.cache.Close()
}
