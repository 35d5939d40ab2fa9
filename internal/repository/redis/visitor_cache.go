package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	visitorSeenTTL = 30 * time.Minute
	ipLocationTTL  = 24 * time.Hour
)

// VisitorCache suppresses repeat visitor rows per IP and caches geolocation
// lookups, mirroring what the tracking middleware needs.
type VisitorCache struct {
	client *redis.Client
}

func NewVisitorCache(client *redis.Client) *VisitorCache {
	return &VisitorCache{
		client: client,
	}
}

// SeenRecently reports whether this IP was already logged inside the
// suppression window.
func (c *VisitorCache) SeenRecently(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("visitor:ip:%s", ip)

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check visitor cache: %w", err)
	}

	return exists > 0, nil
}

func (c *VisitorCache) MarkSeen(ctx context.Context, ip string) error {
	key := fmt.Sprintf("visitor:ip:%s", ip)

	if err := c.client.Set(ctx, key, "1", visitorSeenTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark visitor as seen: %w", err)
	}

	return nil
}

// GetLocation returns the cached location for an IP, or "" on a cache miss.
func (c *VisitorCache) GetLocation(ctx context.Context, ip string) (string, error) {
	key := fmt.Sprintf("ip:location:%s", ip)

	location, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached location: %w", err)
	}

	return location, nil
}

func (c *VisitorCache) SetLocation(ctx context.Context, ip, location string) error {
	key := fmt.Sprintf("ip:location:%s", ip)

	if err := c.client.Set(ctx, key, location, ipLocationTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache location: %w", err)
	}

	return nil
}
