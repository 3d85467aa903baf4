package redisStore

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logger_i.Logger
	once      sync.Once
)

type Store struct {
	client *redis.Client
	Type   int
}

// GetRedisStore returns (creating if necessary) the shared client for the
// given Redis DB index. It returns nil if Redis is unreachable; callers
// decide whether to fall back to an in-memory equivalent.
func GetRedisStore(ctx context.Context, DBType int) *Store {
	mu.RLock()
	instance, exists := instances[DBType]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[DBType]; exists {
		return instance
	}
	return createNewStore(ctx, DBType)
}

func initLogger(dbtype int) {
	if logger == nil {
		logger = logger_i.NewLogger("redis store: " + strconv.Itoa(dbtype))
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("closing redis stores")
	mu.Lock()
	defer mu.Unlock()
	for _, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("error closing redis client", "error", err)
		}
	}
	logger.Info("redis stores closed")
}

func createNewStore(ctx context.Context, dbType int) *Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = config.RedisAddr
	}
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	initLogger(dbType)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis is offline", "error", err.Error())
		return nil
	}

	logger.Info("redis store init successfully", "db", dbType)

	newStore := &Store{client: newClient, Type: dbType}
	instances[dbType] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore
}

// NewTestStore wraps an already-constructed client (e.g. a miniredis-backed
// one) for tests.
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client}
}
