package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds our token, so an
// expired lease cannot release a lock someone else re-acquired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a best-effort distributed mutex on a single redis key (SET NX +
// TTL). It guards against overlapping batch-processor runs across instances.
type Lease struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

func New(client *redis.Client, key string, ttl time.Duration) *Lease {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Lease{client: client, key: key, ttl: ttl}
}

// Acquire returns false when another holder owns the lease.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

func (l *Lease) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	defer func() { l.token = "" }()
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}
