package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cartsvc/internal/logger"
	"cartsvc/internal/models"

	"github.com/redis/go-redis/v9"
)

// Each cart is cached as a hash with a "version" field and a JSON "data"
// field. The version only moves forward, so a reader that loaded an older
// cart can never overwrite a newer one.

// storeIfNewer writes data unless the cached version is already ahead.
var storeIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// raiseFloor drops the cached data and records that the stored version is at
// least ARGV[1].
var raiseFloor = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HDEL', KEYS[1], 'data')
redis.call('HSET', KEYS[1], 'version', ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// CachedCartRepository keeps a JSON copy of carts in Redis in front of another
// CartRepository. The wrapped store stays the source of truth: a save always
// goes through it and then writes the saved cart to the cache.
type CachedCartRepository struct {
	next   CartRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCachedCartRepository wraps next with a Redis cache.
func NewCachedCartRepository(next CartRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedCartRepository {
	return &CachedCartRepository{next: next, client: client, ttl: ttl, log: log}
}

func cartCacheKey(id string) string {
	return fmt.Sprintf("cart:%s", id)
}

// Create stores the cart in the wrapped repository. Nothing is cached until
// the first read.
func (r *CachedCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	return r.next.Create(ctx, cart)
}

// GetByID serves from Redis when possible and fills the cache on a miss.
// Redis failures degrade to reading through.
func (r *CachedCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	data, err := r.client.HGet(ctx, cartCacheKey(id), "data").Bytes()
	switch {
	case err == nil:
		var cart models.Cart
		jsonErr := json.Unmarshal(data, &cart)
		if jsonErr == nil {
			return &cart, nil
		}
		r.log.Warn("discarding undecodable cached cart", "cart_id", id, "error", jsonErr)
	case !errors.Is(err, redis.Nil):
		r.log.Warn("cart cache read failed", "cart_id", id, "error", err)
	}

	cart, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, cart)
	return cart, nil
}

// Save writes through to the wrapped repository. On success the new version
// is cached; on a version conflict the cached copy is dropped, since the
// stored cart is at least one version ahead of it.
func (r *CachedCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	saveErr := r.next.Save(ctx, cart)
	switch {
	case saveErr == nil:
		r.store(ctx, cart)
	case errors.Is(saveErr, ErrVersionConflict):
		err := raiseFloor.Run(ctx, r.client, []string{cartCacheKey(cart.ID)}, cart.Version+1, r.ttl.Milliseconds()).Err()
		if err != nil {
			r.log.Warn("cart cache invalidation failed", "cart_id", cart.ID, "error", err)
		}
	default:
		if err := r.client.Del(ctx, cartCacheKey(cart.ID)).Err(); err != nil {
			r.log.Warn("cart cache invalidation failed", "cart_id", cart.ID, "error", err)
		}
	}
	return saveErr
}

func (r *CachedCartRepository) store(ctx context.Context, cart *models.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		r.log.Warn("failed to encode cart for cache", "cart_id", cart.ID, "error", err)
		return
	}
	stored, err := storeIfNewer.Run(ctx, r.client, []string{cartCacheKey(cart.ID)}, cart.Version, data, r.ttl.Milliseconds()).Int()
	if err != nil {
		r.log.Warn("cart cache write failed", "cart_id", cart.ID, "error", err)
		return
	}
	if stored == 0 {
		r.log.Debug("newer cart already cached, skipping fill", "cart_id", cart.ID, "version", cart.Version)
	}
}
