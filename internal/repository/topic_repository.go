package repository

import (
	"errors"
	"strings"

	"forum-system/internal/model"

	"gorm.io/gorm"
)

// TopicRepository 话题数据仓储
type TopicRepository struct {
	db *gorm.DB
}

// NewTopicRepository 创建TopicRepository实例
func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// TopicWithCount 话题及其房间数
type TopicWithCount struct {
	model.Topic
	RoomCount int64
}

// GetOrCreate 按名称获取话题，不存在则创建（幂等）
// name上有唯一索引：并发下重复插入会失败，此时重查一次即可
func (r *TopicRepository) GetOrCreate(name string) (*model.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("话题名称不能为空")
	}

	var topic model.Topic
	err := r.db.Where("name = ?", name).FirstOrCreate(&topic, model.Topic{Name: name}).Error
	if err == nil {
		return &topic, nil
	}

	// 唯一索引冲突说明另一请求已创建，重查
	var existing model.Topic
	if retryErr := r.db.Where("name = ?", name).First(&existing).Error; retryErr == nil {
		return &existing, nil
	}
	return nil, err
}

// All 获取全部话题
func (r *TopicRepository) All() ([]*model.Topic, error) {
	var topics []*model.Topic
	err := r.db.Order("name ASC").Find(&topics).Error
	return topics, err
}

// Search 按名称模糊检索话题（大小写不敏感），q为空时返回全部
func (r *TopicRepository) Search(q string) ([]*model.Topic, error) {
	var topics []*model.Topic
	query := r.db.Order("name ASC")
	if q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	err := query.Find(&topics).Error
	return topics, err
}

// Top 按房间数取前N个话题（侧栏热门话题）
func (r *TopicRepository) Top(limit int) ([]*TopicWithCount, error) {
	var topics []*TopicWithCount
	err := r.db.Model(&model.Topic{}).
		Select("topic.*, COUNT(room.id) AS room_count").
		Joins("LEFT JOIN room ON room.topic_id = topic.id AND room.deleted_at IS NULL").
		Group("topic.id").
		Order("room_count DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}
