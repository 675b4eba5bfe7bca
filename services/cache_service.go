package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"personalization_api/models"
	"personalization_api/utils"
)

// 缓存键前缀
const cacheKeyPrefix = "rec_"

type cacheEntry struct {
	response  *models.RecommendationResponse
	expiresAt time.Time
}

// RecommendationCache 进程内的推荐结果缓存
// 单个请求只读写自己的键，无需跨键事务；相同键的并发未命中允许各自计算、
// 后写覆盖。不支持按键失效，InvalidateAll 是唯一的手动失效方式
// （触发场景：API密钥轮换），其余依赖TTL过期。
type RecommendationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time // 测试中注入时钟
}

// NewRecommendationCache 创建缓存，ttl<=0 时取默认300秒
func NewRecommendationCache(ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &RecommendationCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key 根据归一化请求生成缓存键
// 属性名先排序再拼接，保证语义相同的请求无论属性顺序如何都命中同一个键
func (c *RecommendationCache) Key(attrs models.AttributeSet, perPage, page int) string {
	names := make([]string, 0, len(models.AttributeNames))
	for _, name := range models.AttributeNames {
		if attrs.Has(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+2)
	for _, name := range names {
		parts = append(parts, name+"="+strings.Join(attrs.Values(name), ","))
	}
	parts = append(parts, fmt.Sprintf("per_page=%d", perPage))
	parts = append(parts, fmt.Sprintf("page=%d", page))

	return cacheKeyPrefix + utils.CalculateMD5(strings.Join(parts, "|"))
}

// Get 读取缓存，过期条目视为不存在，绝不返回超过TTL的数据
func (c *RecommendationCache) Get(key string) (*models.RecommendationResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.response, true
}

// Set 写入缓存，有效期为默认TTL
func (c *RecommendationCache) Set(key string, resp *models.RecommendationResponse) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{
		response:  resp,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// InvalidateAll 无条件清空全部缓存条目
func (c *RecommendationCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// SweepExpired 清理已过期的条目，返回清理数量（调度器周期调用，控制内存占用）
func (c *RecommendationCache) SweepExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len 当前缓存条目数
func (c *RecommendationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
