package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client defines the interface for interacting with Redis-based parse queues.
type Client interface {
	// Push adds a work item to the end of a queue (LPUSH).
	Push(ctx context.Context, queue string, item WorkItem) error

	// Pop removes and returns a work item from the front of a queue (BRPOP).
	// Blocks until an item is available or context is cancelled.
	Pop(ctx context.Context, queue string) (*WorkItem, error)

	// Publish sends a result to a pub/sub channel.
	Publish(ctx context.Context, channel string, result Result) error

	// Subscribe creates a subscription to a pub/sub channel.
	// Returns a channel that receives results until the subscription is closed.
	Subscribe(ctx context.Context, channel string) (<-chan Result, error)

	// RegisterParser writes parser metadata to Redis and adds to the
	// available set.
	RegisterParser(ctx context.Context, meta ParserMeta) error

	// ListParsers returns metadata for all registered parsers.
	ListParsers(ctx context.Context) ([]ParserMeta, error)

	// Heartbeat updates the health key for a parser with a 30s TTL.
	Heartbeat(ctx context.Context, parserName string) error

	// GetWorkerCount returns the current worker count for a parser.
	GetWorkerCount(ctx context.Context, parserName string) (int, error)

	// IncrementWorkerCount increments the worker count for a parser.
	IncrementWorkerCount(ctx context.Context, parserName string) error

	// DecrementWorkerCount decrements the worker count for a parser.
	DecrementWorkerCount(ctx context.Context, parserName string) error

	// Close closes the Redis connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisClient implements the Client interface using go-redis/v9.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis queue client with the given options.
func NewRedisClient(opts RedisOptions) (*RedisClient, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Push adds a work item to the end of a queue.
func (c *RedisClient) Push(ctx context.Context, queue string, item WorkItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal work item: %w", err)
	}

	if err := c.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", queue, err)
	}

	return nil
}

// Pop removes and returns a work item from the front of a queue.
// Blocks until an item is available or context is cancelled.
func (c *RedisClient) Pop(ctx context.Context, queue string) (*WorkItem, error) {
	// BRPOP returns [queue_name, value] or empty if timeout
	result, err := c.client.BRPop(ctx, 0, queue).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue %s: %w", queue, err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP result length: %d", len(result))
	}

	var item WorkItem
	if err := json.Unmarshal([]byte(result[1]), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal work item: %w", err)
	}

	return &item, nil
}

// Publish sends a result to a pub/sub channel.
func (c *RedisClient) Publish(ctx context.Context, channel string, result Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe creates a subscription to a pub/sub channel.
func (c *RedisClient) Subscribe(ctx context.Context, channel string) (<-chan Result, error) {
	pubsub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	resultChan := make(chan Result)

	go func() {
		defer close(resultChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var result Result
				if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
					// Skip malformed payloads but keep the subscription.
					continue
				}

				select {
				case resultChan <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultChan, nil
}

// RegisterParser writes parser metadata to Redis and adds to the
// available set.
func (c *RedisClient) RegisterParser(ctx context.Context, meta ParserMeta) error {
	// Build a flat map for HSET - all values must be strings for go-redis
	metaMap := map[string]string{
		"name":         meta.Name,
		"version":      meta.Version,
		"description":  meta.Description,
		"command":      meta.Command,
		"worker_count": strconv.Itoa(meta.WorkerCount),
	}

	metaKey := fmt.Sprintf("parser:%s:meta", meta.Name)
	args := make([]interface{}, 0, len(metaMap)*2)
	for k, v := range metaMap {
		args = append(args, k, v)
	}
	if err := c.client.HSet(ctx, metaKey, args...).Err(); err != nil {
		return fmt.Errorf("failed to set parser metadata: %w", err)
	}

	if err := c.client.SAdd(ctx, "parsers:available", meta.Name).Err(); err != nil {
		return fmt.Errorf("failed to add parser to available set: %w", err)
	}

	return nil
}

// ListParsers returns metadata for all registered parsers.
func (c *RedisClient) ListParsers(ctx context.Context) ([]ParserMeta, error) {
	parserNames, err := c.client.SMembers(ctx, "parsers:available").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get available parsers: %w", err)
	}

	parsers := make([]ParserMeta, 0, len(parserNames))

	for _, name := range parserNames {
		metaKey := fmt.Sprintf("parser:%s:meta", name)
		metaMap, err := c.client.HGetAll(ctx, metaKey).Result()
		if err != nil {
			// Skip parsers with missing metadata
			continue
		}

		if len(metaMap) == 0 {
			continue
		}

		meta := ParserMeta{
			Name:        metaMap["name"],
			Version:     metaMap["version"],
			Description: metaMap["description"],
			Command:     metaMap["command"],
		}
		if count, err := strconv.Atoi(metaMap["worker_count"]); err == nil {
			meta.WorkerCount = count
		}

		parsers = append(parsers, meta)
	}

	return parsers, nil
}

// Heartbeat updates the health key for a parser with a 30s TTL.
func (c *RedisClient) Heartbeat(ctx context.Context, parserName string) error {
	healthKey := fmt.Sprintf("parser:%s:health", parserName)
	if err := c.client.Set(ctx, healthKey, "ok", 30*time.Second).Err(); err != nil {
		return fmt.Errorf("failed to set heartbeat for parser %s: %w", parserName, err)
	}
	return nil
}

// GetWorkerCount returns the current worker count for a parser.
func (c *RedisClient) GetWorkerCount(ctx context.Context, parserName string) (int, error) {
	workerKey := fmt.Sprintf("parser:%s:workers", parserName)
	countStr, err := c.client.Get(ctx, workerKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get worker count for parser %s: %w", parserName, err)
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("invalid worker count value: %w", err)
	}

	return count, nil
}

// IncrementWorkerCount increments the worker count for a parser.
func (c *RedisClient) IncrementWorkerCount(ctx context.Context, parserName string) error {
	workerKey := fmt.Sprintf("parser:%s:workers", parserName)
	if err := c.client.Incr(ctx, workerKey).Err(); err != nil {
		return fmt.Errorf("failed to increment worker count for parser %s: %w", parserName, err)
	}
	return nil
}

// DecrementWorkerCount decrements the worker count for a parser.
func (c *RedisClient) DecrementWorkerCount(ctx context.Context, parserName string) error {
	workerKey := fmt.Sprintf("parser:%s:workers", parserName)
	if err := c.client.Decr(ctx, workerKey).Err(); err != nil {
		return fmt.Errorf("failed to decrement worker count for parser %s: %w", parserName, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}
