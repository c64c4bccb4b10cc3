package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow bumps the counter of one window and sets its expiry on first use.
// It returns the number of hits seen in the window so far.
var incrWindow = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return hits
`)

const redisCallTimeout = 250 * time.Millisecond

// RedisLimiter counts hits in windows aligned to the epoch, so every API
// replica agrees on where a window starts. Keys look like
// <namespace>:<route>:<client>:<window start>, one counter per route and
// client per window. Redis failures let the request through.
type RedisLimiter struct {
	client    redis.Scripter
	namespace string
	now       func() time.Time
}

func NewRedisLimiter(client redis.Scripter, namespace string) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, namespace: namespace, now: time.Now}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	windowKey, ttl := l.windowKey(key, window)

	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()
	hits, err := incrWindow.Run(ctx, l.client, []string{windowKey}, ttl.Milliseconds()).Int64()
	if err != nil {
		return true
	}
	return hits <= int64(limit)
}

// windowKey names the counter for the window containing now and returns how
// long that counter has to live.
func (l *RedisLimiter) windowKey(key string, window time.Duration) (string, time.Duration) {
	now := l.now()
	start := now.Truncate(window)
	ttl := start.Add(window).Sub(now)
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}
	name := key + ":" + strconv.FormatInt(start.Unix(), 10)
	if l.namespace != "" {
		name = l.namespace + ":" + name
	}
	return name, ttl
}
