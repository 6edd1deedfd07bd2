package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
)

// CachedDirectory fronts a Directory with a short-TTL Redis read-through
// cache for username lookups. It only serves the login path; token
// validation never touches it. Redis failures fall through to the
// underlying directory, so the cache can only speed things up.
type CachedDirectory struct {
	next   Directory
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDirectory connects to Redis and wraps next. An unreachable
// Redis is logged but not fatal.
func NewCachedDirectory(next Directory, cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &CachedDirectory{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(username string) string {
	return "directory:employee:" + username
}

// FindByUsername serves from cache when possible, otherwise fetches from
// the directory and stores the result.
func (d *CachedDirectory) FindByUsername(ctx context.Context, username string) (*domain.EmployeeRecord, error) {
	if cached, err := d.client.Get(ctx, cacheKey(username)).Bytes(); err == nil {
		var record domain.EmployeeRecord
		if err := json.Unmarshal(cached, &record); err == nil {
			return &record, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		d.logger.Debug("directory cache read failed", zap.Error(err))
	}

	record, err := d.next.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(record); err == nil {
		if err := d.client.Set(ctx, cacheKey(username), encoded, d.ttl).Err(); err != nil {
			d.logger.Debug("directory cache write failed", zap.Error(err))
		}
	}
	return record, nil
}

// Register forwards to the directory and drops any stale cache entry for
// the username.
func (d *CachedDirectory) Register(ctx context.Context, record *domain.EmployeeRecord) (*domain.EmployeeRecord, error) {
	saved, err := d.next.Register(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := d.client.Del(ctx, cacheKey(saved.Username)).Err(); err != nil {
		d.logger.Debug("directory cache invalidation failed", zap.Error(err))
	}
	return saved, nil
}

// Ping verifies Redis connectivity for readiness checks.
func (d *CachedDirectory) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (d *CachedDirectory) Close() {
	_ = d.client.Close()
}
