package realtime

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Registry tracks which users have at least one authenticated connection.
type Registry interface {
	Add(ctx context.Context, clientID uint64, userID string) error
	// Remove forgets the client and returns the user it belonged to, or "".
	Remove(ctx context.Context, clientID uint64) (string, error)
	OnlineUsers(ctx context.Context) ([]string, error)
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// MemoryRegistry is a single-process Registry.
type MemoryRegistry struct {
	mu      sync.Mutex
	clients map[uint64]string
	users   map[string]int
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{clients: map[uint64]string{}, users: map[string]int{}}
}

func (r *MemoryRegistry) Add(_ context.Context, clientID uint64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.clients[clientID]; ok {
		if prev == userID {
			return nil
		}
		r.release(prev)
	}
	r.clients[clientID] = userID
	r.users[userID]++
	return nil
}

func (r *MemoryRegistry) Remove(_ context.Context, clientID uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.clients[clientID]
	if !ok {
		return "", nil
	}
	delete(r.clients, clientID)
	r.release(userID)
	return userID, nil
}

func (r *MemoryRegistry) release(userID string) {
	r.users[userID]--
	if r.users[userID] <= 0 {
		delete(r.users, userID)
	}
}

func (r *MemoryRegistry) OnlineUsers(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.users))
	for id := range r.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRegistry) IsOnline(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID] > 0, nil
}

// RedisRegistry shares presence between API instances. Each instance keys its
// clients by instance id; users carry a connection count.
type RedisRegistry struct {
	rdb      redis.UniversalClient
	instance string
	clients  string
	users    string
}

const defaultPresencePrefix = "stayfinder:presence"

func NewRedisRegistry(rdb redis.UniversalClient, instance string) *RedisRegistry {
	return &RedisRegistry{
		rdb:      rdb,
		instance: instance,
		clients:  defaultPresencePrefix + ":clients",
		users:    defaultPresencePrefix + ":users",
	}
}

func (r *RedisRegistry) clientField(clientID uint64) string {
	return r.instance + ":" + strconv.FormatUint(clientID, 10)
}

func (r *RedisRegistry) Add(ctx context.Context, clientID uint64, userID string) error {
	field := r.clientField(clientID)

	prev, err := r.rdb.HGet(ctx, r.clients, field).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("presence lookup: %w", err)
	}
	if prev == userID {
		return nil
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prev != "" {
			pipe.HIncrBy(ctx, r.users, prev, -1)
		}
		pipe.HSet(ctx, r.clients, field, userID)
		pipe.HIncrBy(ctx, r.users, userID, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("presence add: %w", err)
	}
	if prev != "" {
		return r.dropIfIdle(ctx, prev)
	}
	return nil
}

func (r *RedisRegistry) Remove(ctx context.Context, clientID uint64) (string, error) {
	field := r.clientField(clientID)

	userID, err := r.rdb.HGet(ctx, r.clients, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("presence lookup: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.clients, field)
		pipe.HIncrBy(ctx, r.users, userID, -1)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("presence remove: %w", err)
	}
	return userID, r.dropIfIdle(ctx, userID)
}

func (r *RedisRegistry) dropIfIdle(ctx context.Context, userID string) error {
	n, err := r.rdb.HGet(ctx, r.users, userID).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("presence count: %w", err)
	}
	if n <= 0 {
		return r.rdb.HDel(ctx, r.users, userID).Err()
	}
	return nil
}

func (r *RedisRegistry) OnlineUsers(ctx context.Context) ([]string, error) {
	counts, err := r.rdb.HGetAll(ctx, r.users).Result()
	if err != nil {
		return nil, fmt.Errorf("presence list: %w", err)
	}
	out := make([]string, 0, len(counts))
	for id, raw := range counts {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *RedisRegistry) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := r.rdb.HGet(ctx, r.users, userID).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("presence check: %w", err)
	}
	return n > 0, nil
}

var (
	_ Registry = (*MemoryRegistry)(nil)
	_ Registry = (*RedisRegistry)(nil)
)
