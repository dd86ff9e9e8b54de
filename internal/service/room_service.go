package service

import (
	"errors"
	"strings"

	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/pkg/redis"
)

const (
	topTopicsLimit       = 5 // 首页侧栏热门话题数
	recentMessagesLimit  = 5 // 首页侧栏最近留言数
	profileMessagesLimit = 5 // 个人主页最近留言数
)

// RoomService 房间服务
type RoomService struct {
	rooms    *repository.RoomRepository
	topics   *repository.TopicRepository
	messages *repository.MessageRepository
}

// NewRoomService 创建RoomService实例
func NewRoomService(rooms *repository.RoomRepository, topics *repository.TopicRepository, messages *repository.MessageRepository) *RoomService {
	return &RoomService{rooms: rooms, topics: topics, messages: messages}
}

// CanModify 所有权判定：actor是否可修改属于ownerID的资源
// 房间的update/delete、留言的delete统一走这一个判定
func CanModify(actor *model.User, ownerID uint) bool {
	return actor != nil && actor.ID == ownerID
}

// HomeData 首页数据
type HomeData struct {
	Rooms        []*model.Room
	RoomCount    int64
	Topics       []*repository.TopicWithCount
	AllTopics    []*model.Topic
	RoomMessages []*model.Message
}

// Home 首页：按关键词检索房间，附带话题侧栏与最近留言
func (s *RoomService) Home(q string) (*HomeData, error) {
	rooms, count, err := s.rooms.Search(q)
	if err != nil {
		return nil, err
	}

	allTopics, err := s.topics.All()
	if err != nil {
		return nil, err
	}

	topTopics, err := s.topics.Top(topTopicsLimit)
	if err != nil {
		return nil, err
	}

	roomMessages, err := s.messages.RecentByTopic(q, recentMessagesLimit)
	if err != nil {
		return nil, err
	}

	return &HomeData{
		Rooms:        rooms,
		RoomCount:    count,
		Topics:       topTopics,
		AllTopics:    allTopics,
		RoomMessages: roomMessages,
	}, nil
}

// Topics 全部话题（房间表单的话题选择）
func (s *RoomService) Topics() ([]*model.Topic, error) {
	return s.topics.All()
}

// GetRoom 获取房间及其留言（发表顺序）
func (s *RoomService) GetRoom(id uint) (*model.Room, []*model.Message, error) {
	room, err := s.rooms.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messages.ByRoom(room.ID)
	if err != nil {
		return nil, nil, err
	}
	return room, messages, nil
}

// CreateRoom 创建房间，房主为当前用户
// 话题按名称get-or-create，不存在则懒创建
func (s *RoomService) CreateRoom(host *model.User, name, description, topicName string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("房间名称不能为空")
	}

	topic, err := s.topics.GetOrCreate(topicName)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		Name:        name,
		Description: strings.TrimSpace(description),
		HostID:      host.ID,
		TopicID:     topic.ID,
	}
	if err := s.rooms.Create(room); err != nil {
		return nil, err
	}
	room.Host = host
	room.Topic = topic
	return room, nil
}

// UpdateRoom 修改房间，只有房主可以操作
func (s *RoomService) UpdateRoom(actor *model.User, roomID uint, name, description, topicName string) (*model.Room, error) {
	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, room.HostID) {
		return nil, ErrPermissionDenied
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("房间名称不能为空")
	}

	topic, err := s.topics.GetOrCreate(topicName)
	if err != nil {
		return nil, err
	}

	room.Name = name
	room.Description = strings.TrimSpace(description)
	room.TopicID = topic.ID
	room.Topic = topic
	if err := s.rooms.Update(room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom 删除房间，只有房主可以操作
// 级联删除房间留言，并清理相关缓存
func (s *RoomService) DeleteRoom(actor *model.User, roomID uint) error {
	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return err
	}
	if !CanModify(actor, room.HostID) {
		return ErrPermissionDenied
	}

	if err := s.rooms.Delete(room); err != nil {
		return err
	}

	// 缓存清理尽力而为，失败不影响删除结果
	_ = redis.DelRoomViews(room.ID)
	_ = redis.InvalidateActivityFeed()

	return nil
}

// VisitRoom 房间浏览计数加一并返回最新值
// Redis不可用时返回0，不影响页面渲染
func (s *RoomService) VisitRoom(roomID uint) int64 {
	views, err := redis.IncrRoomViews(roomID)
	if err != nil {
		return 0
	}
	return views
}
