package service

import (
	"encoding/json"
	"errors"
	"strings"

	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/pkg/redis"
	"forum-system/pkg/websocket"
)

// MessageService 留言服务
type MessageService struct {
	messages *repository.MessageRepository
	rooms    *repository.RoomRepository
}

// NewMessageService 创建MessageService实例
func NewMessageService(messages *repository.MessageRepository, rooms *repository.RoomRepository) *MessageService {
	return &MessageService{messages: messages, rooms: rooms}
}

// PostMessage 在房间内发表留言
// 副作用：作者加入房间参与者集合（幂等）；失效动态缓存；向房间订阅者推送
func (s *MessageService) PostMessage(author *model.User, roomID uint, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("留言内容不能为空")
	}

	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		UserID: author.ID,
		RoomID: room.ID,
		Body:   body,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}
	message.User = author
	message.Room = room

	// 发言即成为参与者
	if err := s.rooms.AddParticipant(room, author); err != nil {
		return nil, err
	}

	// 失效动态缓存
	_ = redis.InvalidateActivityFeed()

	// WebSocket推送给房间订阅者
	displayName := author.Nickname
	if displayName == "" {
		displayName = author.Username
	}
	msgData := map[string]interface{}{
		"type":       "message",
		"message_id": message.ID,
		"room_id":    room.ID,
		"user_id":    author.ID,
		"username":   displayName,
		"body":       body,
		"created_at": message.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	msgBytes, _ := json.Marshal(msgData)
	websocket.GetManager().BroadcastToRoom(room.ID, msgBytes)

	return message, nil
}

// GetMessage 获取留言（删除确认页）
func (s *MessageService) GetMessage(id uint) (*model.Message, error) {
	return s.messages.GetByID(id)
}

// DeleteMessage 删除留言，只有作者可以操作
// 返回所在房间ID供删除后跳转
func (s *MessageService) DeleteMessage(actor *model.User, messageID uint) (uint, error) {
	message, err := s.messages.GetByID(messageID)
	if err != nil {
		return 0, err
	}
	if !CanModify(actor, message.UserID) {
		return 0, ErrPermissionDenied
	}

	if err := s.messages.Delete(message); err != nil {
		return 0, err
	}

	// 失效动态缓存
	_ = redis.InvalidateActivityFeed()

	return message.RoomID, nil
}

// Activity 全站动态，倒序排列
// 优先读Redis缓存；未命中时回源数据库并异步回填
func (s *MessageService) Activity() ([]redis.CachedActivity, error) {
	if cached, err := redis.GetCachedActivityFeed(); err == nil && len(cached) > 0 {
		return cached, nil
	}

	messages, err := s.messages.All()
	if err != nil {
		return nil, err
	}

	activities := make([]redis.CachedActivity, 0, len(messages))
	for _, msg := range messages {
		entry := redis.CachedActivity{
			ID:        msg.ID,
			UserID:    msg.UserID,
			RoomID:    msg.RoomID,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		}
		if msg.User != nil {
			entry.Username = msg.User.Username
			if msg.User.Nickname != "" {
				entry.Username = msg.User.Nickname
			}
		}
		if msg.Room != nil {
			entry.RoomName = msg.Room.Name
		}
		activities = append(activities, entry)
	}

	// 列表过大时不回填缓存
	if len(activities) <= redis.MaxCachedActivities {
		go func(list []redis.CachedActivity) {
			_ = redis.CacheActivityFeed(list)
		}(activities)
	}

	return activities, nil
}
