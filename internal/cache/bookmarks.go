package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BookmarkCachePrefix is the key prefix for per-user bookmark caches
	BookmarkCachePrefix = "bookmarks:user:"

	// BookmarkCacheTTL is the TTL for a user's bookmark cache (24 hours)
	BookmarkCacheTTL = 24 * time.Hour
)

// BookmarkCache caches the set of product ids a user has bookmarked.
// It only accelerates the discover read path: postgres stays the
// authoritative store, and callers must fall back to it whenever the
// cache entry is missing.
type BookmarkCache interface {
	// Add inserts a product id into a user's cache if the cache exists.
	Add(ctx context.Context, userID int64, productID string) error

	// Remove deletes a product id from a user's cache.
	Remove(ctx context.Context, userID int64, productID string) error

	// ContainsAll reports bookmark membership for each product id.
	// found=false means the user has no cache entry and the caller must
	// use the authoritative store instead.
	ContainsAll(ctx context.Context, userID int64, productIDs []string) (result map[string]bool, found bool, err error)

	// Warm replaces a user's cache with the given product ids.
	Warm(ctx context.Context, userID int64, productIDs []string) error

	// Exists checks if a user has a cache entry.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// RedisBookmarkCache implements BookmarkCache using Redis Sets.
type RedisBookmarkCache struct {
	client *redis.Client
}

// NewBookmarkCache creates a BookmarkCache backed by Redis.
func NewBookmarkCache(client *redis.Client) BookmarkCache {
	return &RedisBookmarkCache{client: client}
}

func bookmarkKey(userID int64) string {
	return fmt.Sprintf("%s%d", BookmarkCachePrefix, userID)
}

// Add inserts a product id, but only when the set already exists: adding
// to a missing set would create a partial cache that lies about absence.
func (c *RedisBookmarkCache) Add(ctx context.Context, userID int64, productID string) error {
	key := bookmarkKey(userID)

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("[BookmarkCache] Add FAILED: user=%d product=%s err=%v", userID, productID, err)
		return fmt.Errorf("check cache exists: %w", err)
	}
	if exists == 0 {
		log.Printf("[BookmarkCache] Add skipped (no cache): user=%d product=%s", userID, productID)
		return nil
	}

	pipe := c.client.Pipeline()
	pipe.SAdd(ctx, key, productID)
	pipe.Expire(ctx, key, BookmarkCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[BookmarkCache] Add FAILED: user=%d product=%s err=%v", userID, productID, err)
		return fmt.Errorf("add bookmark to cache: %w", err)
	}

	log.Printf("[BookmarkCache] Add OK: user=%d product=%s", userID, productID)
	return nil
}

// Remove deletes a product id from a user's cache.
func (c *RedisBookmarkCache) Remove(ctx context.Context, userID int64, productID string) error {
	key := bookmarkKey(userID)

	removed, err := c.client.SRem(ctx, key, productID).Result()
	if err != nil {
		log.Printf("[BookmarkCache] Remove FAILED: user=%d product=%s err=%v", userID, productID, err)
		return fmt.Errorf("remove bookmark from cache: %w", err)
	}

	log.Printf("[BookmarkCache] Remove OK: user=%d product=%s removed=%d", userID, productID, removed)
	return nil
}

// ContainsAll checks membership for a batch of product ids with SMISMEMBER.
func (c *RedisBookmarkCache) ContainsAll(ctx context.Context, userID int64, productIDs []string) (map[string]bool, bool, error) {
	key := bookmarkKey(userID)

	if len(productIDs) == 0 {
		return make(map[string]bool), true, nil
	}

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("[BookmarkCache] ContainsAll FAILED: user=%d err=%v", userID, err)
		return nil, false, fmt.Errorf("check cache exists: %w", err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	members := make([]interface{}, len(productIDs))
	for i, id := range productIDs {
		members[i] = id
	}

	flags, err := c.client.SMIsMember(ctx, key, members...).Result()
	if err != nil {
		log.Printf("[BookmarkCache] ContainsAll FAILED: user=%d err=%v", userID, err)
		return nil, false, fmt.Errorf("check bookmark membership: %w", err)
	}

	result := make(map[string]bool, len(productIDs))
	for i, id := range productIDs {
		result[id] = flags[i]
	}

	// Refresh TTL on access
	c.client.Expire(ctx, key, BookmarkCacheTTL)

	log.Printf("[BookmarkCache] ContainsAll OK: user=%d checked=%d", userID, len(productIDs))
	return result, true, nil
}

// Warm replaces a user's cache with the authoritative bookmark set.
// An empty set is still cached: a sentinel member keeps the key alive so
// "no bookmarks" is distinguishable from "no cache".
func (c *RedisBookmarkCache) Warm(ctx context.Context, userID int64, productIDs []string) error {
	key := bookmarkKey(userID)

	members := make([]interface{}, 0, len(productIDs)+1)
	// Sentinel never collides with a product id from the catalog.
	members = append(members, "__warmed__")
	for _, id := range productIDs {
		members = append(members, id)
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, BookmarkCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[BookmarkCache] Warm FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("warm bookmark cache: %w", err)
	}

	log.Printf("[BookmarkCache] Warm OK: user=%d bookmarks=%d", userID, len(productIDs))
	return nil
}

// Exists checks if a user has a bookmark cache entry.
func (c *RedisBookmarkCache) Exists(ctx context.Context, userID int64) (bool, error) {
	exists, err := c.client.Exists(ctx, bookmarkKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check cache exists: %w", err)
	}
	return exists > 0, nil
}
