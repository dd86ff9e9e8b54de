package redis

import (
	"fmt"
)

// 房间浏览计数相关常量
const (
	RoomViewsKeyPrefix = "forum:room:views:" // 房间浏览次数key前缀
)

// roomViewsKey 构建房间浏览计数key
func roomViewsKey(roomID uint) string {
	return fmt.Sprintf("%s%d", RoomViewsKeyPrefix, roomID)
}

// IncrRoomViews 房间浏览次数加一，返回最新值
func IncrRoomViews(roomID uint) (int64, error) {
	if client == nil {
		return 0, fmt.Errorf("redis客户端未初始化")
	}

	return Incr(roomViewsKey(roomID))
}

// DelRoomViews 删除房间浏览计数（删除房间时调用）
func DelRoomViews(roomID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	return Del(roomViewsKey(roomID))
}
