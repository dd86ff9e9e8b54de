package repository

import (
	"errors"
	"strings"

	"forum-system/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 留言数据仓储
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建MessageRepository实例
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 创建留言
func (r *MessageRepository) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

// GetByID 根据ID获取留言（带作者和所在房间）
func (r *MessageRepository) GetByID(id uint) (*model.Message, error) {
	var message model.Message
	err := r.db.
		Preload("User").
		Preload("Room").
		First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// ByRoom 获取房间内全部留言，按发表顺序排列
func (r *MessageRepository) ByRoom(roomID uint) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// RecentByUser 获取某用户最近的留言
func (r *MessageRepository) RecentByUser(userID uint, limit int) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.
		Preload("User").
		Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// RecentByTopic 获取话题名命中关键词的房间里的最近留言（首页侧栏）
func (r *MessageRepository) RecentByTopic(q string, limit int) ([]*model.Message, error) {
	like := "%" + strings.ToLower(q) + "%"
	var messages []*model.Message
	err := r.db.
		Preload("User").
		Preload("Room").
		Joins("JOIN room ON room.id = message.room_id AND room.deleted_at IS NULL").
		Joins("JOIN topic ON topic.id = room.topic_id").
		Where("LOWER(topic.name) LIKE ?", like).
		Order("message.created_at DESC, message.id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// All 获取全站留言，倒序排列（动态页）
func (r *MessageRepository) All() ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.
		Preload("User").
		Preload("Room").
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	return messages, err
}

// Delete 删除留言
func (r *MessageRepository) Delete(message *model.Message) error {
	return r.db.Delete(message).Error
}
