package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StockCache ürün başına hesaplanmış ana depo stoğunu tutar.
// Değerler defterden türetilir; cache yalnızca okuma hızlandırmasıdır.
// Invalidate ürünün neslini artırır. Set yalnızca hesaplamadan önce okunan
// nesil hâlâ geçerliyse yazar.
type StockCache interface {
	Get(ctx context.Context, productID uint) (float64, bool)
	Generation(ctx context.Context, productID uint) int64
	Set(ctx context.Context, productID uint, generation int64, value float64)
	Invalidate(ctx context.Context, productIDs ...uint)
}

// New adres boşsa önbelleği kapalı (NopCache) döner.
func New(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (StockCache, error) {
	if addr == "" {
		return NopCache{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis bağlantısı kurulamadı: %w", err)
	}

	return &RedisStockCache{client: rdb, ttl: ttl, logger: logger}, nil
}

type RedisStockCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStockCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStockCache {
	return &RedisStockCache{client: client, ttl: ttl, logger: logger}
}

func key(productID uint) string {
	return fmt.Sprintf("stock:product:%d", productID)
}

func genKey(productID uint) string {
	return fmt.Sprintf("stock:gen:%d", productID)
}

// nesil anahtarı değerden uzun yaşar; süresi dolarsa eski Set'ler sadece düşer
const genTTL = 24 * time.Hour

// KEYS[1] değer, KEYS[2] nesil; ARGV: beklenen nesil, değer, ttl (ms)
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

func (c *RedisStockCache) Get(ctx context.Context, productID uint) (float64, bool) {
	raw, err := c.client.Get(ctx, key(productID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stok önbelleği okunamadı", zap.Uint("product_id", productID), zap.Error(err))
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *RedisStockCache) Generation(ctx context.Context, productID uint) int64 {
	gen, err := c.client.Get(ctx, genKey(productID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("stok önbelleği nesli okunamadı", zap.Uint("product_id", productID), zap.Error(err))
		return -1
	}
	return gen
}

func (c *RedisStockCache) Set(ctx context.Context, productID uint, generation int64, value float64) {
	if generation < 0 {
		return
	}
	err := setIfGeneration.Run(ctx, c.client,
		[]string{key(productID), genKey(productID)},
		strconv.FormatInt(generation, 10),
		strconv.FormatFloat(value, 'f', -1, 64),
		c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		c.logger.Warn("stok önbelleği yazılamadı", zap.Uint("product_id", productID), zap.Error(err))
	}
}

func (c *RedisStockCache) Invalidate(ctx context.Context, productIDs ...uint) {
	if len(productIDs) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, genKey(id))
			pipe.Expire(ctx, genKey(id), genTTL)
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("stok önbelleği temizlenemedi", zap.Uints("product_ids", productIDs), zap.Error(err))
	}
}

func (c *RedisStockCache) Close() error {
	return c.client.Close()
}

type NopCache struct{}

func (NopCache) Get(context.Context, uint) (float64, bool) { return 0, false }
func (NopCache) Generation(context.Context, uint) int64    { return 0 }
func (NopCache) Set(context.Context, uint, int64, float64) {}
func (NopCache) Invalidate(context.Context, ...uint)       {}
