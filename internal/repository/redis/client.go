package redis

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/iamasit07/connect-n/backend/internal/repository"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const gameKeyPrefix = "game:"

// NewClient connects to Redis. url may be a redis:// URL or a host:port.
func NewClient(url, password string) (*redis.Client, error) {
	options := &redis.Options{Addr: url, Password: password, DB: 0}
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis url")
		}
		if password != "" {
			parsed.Password = password
		}
		options = parsed
	}

	client := redis.NewClient(options)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "could not connect to redis")
	}

	log.Println("[REDIS] Connected successfully")
	return client, nil
}

// GameCache keeps games in progress in Redis in front of a slower store.
// Reads fall through to the store on a miss, writes go to the store first.
// Redis errors are logged and never fail a request.
type GameCache struct {
	next   repository.GameStore
	client *redis.Client
	ttl    time.Duration
}

func NewGameCache(next repository.GameStore, client *redis.Client, ttl time.Duration) *GameCache {
	return &GameCache{next: next, client: client, ttl: ttl}
}

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

func (c *GameCache) CreateGame(ctx context.Context, game *domain.GameRecord) error {
	if err := c.next.CreateGame(ctx, game); err != nil {
		return err
	}
	c.put(ctx, game)
	return nil
}

func (c *GameCache) GetGame(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	if game, ok := c.get(ctx, gameID); ok {
		return game, nil
	}

	game, err := c.next.GetGame(ctx, gameID)
	if err != nil || game == nil {
		return game, err
	}
	c.put(ctx, game)
	return game, nil
}

func (c *GameCache) SaveMoves(ctx context.Context, gameID string, moves []int) error {
	if err := c.next.SaveMoves(ctx, gameID, moves); err != nil {
		// the cached copy may outlive a game the cleanup worker removed
		c.client.Del(ctx, gameKey(gameID))
		return err
	}

	game, ok := c.get(ctx, gameID)
	if !ok {
		return nil
	}
	game.Moves = append([]int(nil), moves...)
	game.UpdatedAt = time.Now()
	c.put(ctx, game)
	return nil
}

func (c *GameCache) DeleteGame(ctx context.Context, gameID string) error {
	if err := c.client.Del(ctx, gameKey(gameID)).Err(); err != nil {
		log.Printf("[REDIS] Failed to evict game %s: %v", gameID, err)
	}
	return c.next.DeleteGame(ctx, gameID)
}

// DeleteStaleGames cleans the store, then evicts cached games idle since
// olderThan so a removed game cannot be played on from the cache.
func (c *GameCache) DeleteStaleGames(ctx context.Context, olderThan time.Time) (int64, error) {
	deleted, err := c.next.DeleteStaleGames(ctx, olderThan)
	if err != nil {
		return deleted, err
	}

	iter := c.client.Scan(ctx, 0, gameKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		gameID := strings.TrimPrefix(iter.Val(), gameKeyPrefix)
		game, ok := c.get(ctx, gameID)
		if ok && game.UpdatedAt.Before(olderThan) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				log.Printf("[REDIS] Failed to evict stale game %s: %v", gameID, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[REDIS] Failed to scan cached games: %v", err)
	}

	return deleted, nil
}

func (c *GameCache) get(ctx context.Context, gameID string) (*domain.GameRecord, bool) {
	data, err := c.client.Get(ctx, gameKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[REDIS] Failed to read game %s: %v", gameID, err)
		return nil, false
	}

	var game domain.GameRecord
	if err := json.Unmarshal(data, &game); err != nil {
		log.Printf("[REDIS] Dropping unreadable cache entry for game %s: %v", gameID, err)
		c.client.Del(ctx, gameKey(gameID))
		return nil, false
	}
	return &game, true
}

func (c *GameCache) put(ctx context.Context, game *domain.GameRecord) {
	data, err := json.Marshal(game)
	if err != nil {
		log.Printf("[REDIS] Failed to encode game %s: %v", game.ID, err)
		return
	}
	if err := c.client.Set(ctx, gameKey(game.ID), data, c.ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to cache game %s: %v", game.ID, err)
	}
}
