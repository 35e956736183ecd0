package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/petshop-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "ps"

// store 当前生效的 Redis 连接；为空表示缓存关闭，所有读写静默降级
type store struct {
	client *redis.Client
	prefix string
}

var active atomic.Pointer[store]

// InitRedis 连接 Redis，未启用或连接失败时保持关闭状态
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		active.Store(nil)
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		active.Store(nil)
		return fmt.Errorf("redis ping %s:%d: %w", host, port, err)
	}
	UseClient(client, cfg.Prefix)
	return nil
}

// UseClient 直接注入客户端，nil 表示关闭缓存
func UseClient(client *redis.Client, prefix string) {
	if client == nil {
		active.Store(&store{prefix: normalizePrefix(prefix)})
		return
	}
	active.Store(&store{client: client, prefix: normalizePrefix(prefix)})
}

func normalizePrefix(prefix string) string {
	if p := strings.TrimSpace(prefix); p != "" {
		return p
	}
	return defaultPrefix
}

// Close 关闭客户端并停用缓存
func Close() error {
	s := active.Swap(nil)
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Client 当前客户端，缓存关闭时为 nil
func Client() *redis.Client {
	if s := active.Load(); s != nil {
		return s.client
	}
	return nil
}

// Key 拼接带全局前缀的 key
func Key(key string) string {
	prefix := defaultPrefix
	if s := active.Load(); s != nil {
		prefix = s.prefix
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return prefix
	}
	return prefix + ":" + key
}

// GetJSON 读取 JSON 缓存，未命中或缓存关闭返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	client := Client()
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	client := Client()
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, Key(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	client := Client()
	if client == nil {
		return nil
	}
	return client.Del(ctx, Key(key)).Err()
}
