package redis

import (
	"encoding/json"
	"fmt"
	"time"
)

// 动态列表缓存相关常量
const (
	ActivityFeedKey = "forum:activity:feed" // 全站动态列表缓存key
)

// 缓存配置（从配置文件获取）
var (
	ActivityCacheTTL    = 5 * time.Minute // 动态列表缓存TTL
	MaxCachedActivities = 50              // 最大缓存动态条数
)

// SetActivityCacheConfig 设置动态缓存配置
func SetActivityCacheConfig(ttl time.Duration, maxActivities int) {
	ActivityCacheTTL = ttl
	MaxCachedActivities = maxActivities
}

// CachedActivity 缓存的动态条目
type CachedActivity struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	RoomID    uint      `json:"room_id"`
	RoomName  string    `json:"room_name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheActivityFeed 缓存全站动态列表
func CacheActivityFeed(activities []CachedActivity) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	// 序列化并存储
	data, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("序列化动态列表失败: %w", err)
	}

	if err := Set(ActivityFeedKey, data, ActivityCacheTTL); err != nil {
		return fmt.Errorf("缓存动态列表失败: %w", err)
	}

	return nil
}

// GetCachedActivityFeed 获取缓存的动态列表
func GetCachedActivityFeed() ([]CachedActivity, error) {
	if client == nil {
		return nil, fmt.Errorf("redis客户端未初始化")
	}

	data, err := Get(ActivityFeedKey)
	if err != nil {
		return nil, err
	}

	var activities []CachedActivity
	if err := json.Unmarshal([]byte(data), &activities); err != nil {
		return nil, fmt.Errorf("反序列化动态列表失败: %w", err)
	}

	return activities, nil
}

// InvalidateActivityFeed 失效动态列表缓存
// 发表留言、删除留言、删除房间后调用
func InvalidateActivityFeed() error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	return Del(ActivityFeedKey)
}
