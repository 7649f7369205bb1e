package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gabapcia/mempart/internal/txroute"

	"github.com/redis/go-redis/v9"
)

// watermarkKeyPrefix is the namespace prefix for all watermark keys.
const watermarkKeyPrefix = "mempart"

// watermarkKey constructs the Redis key holding the watermark of the named
// router instance. The format is:
//
//	"mempart:watermark:<name>"
func watermarkKey(name string) string {
	return fmt.Sprintf("%s:watermark:%s", watermarkKeyPrefix, name)
}

type watermarkStorage struct {
	conn *redis.Client
	key  string
}

// WatermarkStorage returns a txroute.WatermarkStorage that keeps the
// watermark of the router instance called name. The value is stored as a
// decimal string with no expiration.
func (c *client) WatermarkStorage(name string) *watermarkStorage {
	return &watermarkStorage{
		conn: c.conn,
		key:  watermarkKey(name),
	}
}

func (s *watermarkStorage) SaveWatermark(ctx context.Context, watermark uint64) error {
	return s.conn.Set(ctx, s.key, strconv.FormatUint(watermark, 10), 0).Err()
}

// LoadWatermark returns txroute.ErrNoWatermarkFound if the key does not exist.
func (s *watermarkStorage) LoadWatermark(ctx context.Context) (uint64, error) {
	val, err := s.conn.Get(ctx, s.key).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, txroute.ErrNoWatermarkFound
		}
		return 0, fmt.Errorf("get %s: %w", s.key, err)
	}

	return val, nil
}

// Compile-time assertion to ensure watermarkStorage implements the WatermarkStorage interface.
var _ txroute.WatermarkStorage = new(watermarkStorage)
