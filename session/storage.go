package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sgzs6721/mediflow-front/localCache"
)

var ErrMiss = errors.New("storage miss")

// Storage 会话持久化
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ---------- 内存 ----------

type MemoryStorage struct {
	cache *localCache.Cache
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{cache: localCache.New()}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	val, ok := m.cache.GetString(key)
	if !ok {
		return "", ErrMiss
	}
	return val, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.cache.Set(key, value, 0)
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// ---------- 文件 ----------

// FileStorage 单个json文件保存全部键值,权限0600
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", err
	}
	val, ok := data[key]
	if !ok {
		return "", ErrMiss
	}
	return val, nil
}

func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *FileStorage) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

func (f *FileStorage) load() (map[string]string, error) {
	data := map[string]string{}
	bytes, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话文件[%s]失败: %w", f.path, err)
	}
	if len(bytes) == 0 {
		return data, nil
	}
	// 文件损坏时当作空会话
	if err := json.Unmarshal(bytes, &data); err != nil {
		return map[string]string{}, nil
	}
	return data, nil
}

func (f *FileStorage) save(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("创建会话目录失败: %w", err)
	}
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o600); err != nil {
		return fmt.Errorf("写入会话文件失败: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// ---------- Redis ----------

// RedisStorage 共享会话,key统一加前缀
type RedisStorage struct {
	c      *redis.Client
	prefix string
}

func NewRedisStorage(c *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{c: c, prefix: prefix}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	return r.c.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	return r.c.Del(ctx, r.prefix+key).Err()
}
