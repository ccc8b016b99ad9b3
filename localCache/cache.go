package localCache

import (
	"strings"
	"sync"
	"time"
)

// 定义缓存项结构
type item struct {
	value  any         // 存储的值
	expiry time.Time   // 过期时间,零值永不过期
	timer  *time.Timer // 定时器（用于自动删除）
}

// 缓存对象结构
type Cache struct {
	mu   sync.RWMutex     // 读写锁
	data map[string]*item // 数据存储
}

// New 创建独立的缓存实例
func New() *Cache {
	return &Cache{
		data: make(map[string]*item),
	}
}

// Set 设置缓存（永不过期时expiration传0）
func (c *Cache) Set(key string, value any, expiration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 如果已存在则停止原有定时器
	if existing, found := c.data[key]; found && existing.timer != nil {
		existing.timer.Stop()
	}

	newItem := &item{value: value}

	// 设置自动删除定时器
	if expiration > 0 {
		newItem.expiry = time.Now().Add(expiration)
		newItem.timer = time.AfterFunc(expiration, func() {
			c.Delete(key)
		})
	}

	c.data[key] = newItem
}

// Get 获取缓存值
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	item, found := c.data[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}

	// 检查是否过期
	if item.expiry.IsZero() || time.Now().Before(item.expiry) {
		return item.value, true
	}

	// 已过期则删除
	c.Delete(key)
	return nil, false
}

// GetString 获取字符串缓存值
func (c *Cache) GetString(key string) (string, bool) {
	val, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Delete 删除缓存项
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deleteLocked(key)
}

// DeletePrefix 删除指定前缀的缓存项,返回删除数量
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			c.deleteLocked(key)
			count++
		}
	}
	return count
}

// Len 当前缓存项数量(含未清理的过期项)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *Cache) deleteLocked(key string) {
	if item, found := c.data[key]; found {
		// 停止定时器（如果存在）
		if item.timer != nil {
			item.timer.Stop()
		}
		delete(c.data, key)
	}
}
