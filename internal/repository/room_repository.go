package repository

import (
	"errors"
	"strings"

	"forum-system/internal/model"

	"gorm.io/gorm"
)

// RoomRepository 房间数据仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建RoomRepository实例
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(room *model.Room) error {
	return r.db.Create(room).Error
}

// GetByID 根据ID获取房间（带房主、话题、参与者）
func (r *RoomRepository) GetByID(id uint) (*model.Room, error) {
	var room model.Room
	err := r.db.
		Preload("Host").
		Preload("Topic").
		Preload("Participants").
		First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Search 按关键词检索房间并返回命中数
// 话题名、房间名、描述三个子串条件取逻辑或，大小写不敏感；q为空时返回全部
func (r *RoomRepository) Search(q string) ([]*model.Room, int64, error) {
	// 同一查询构建两次：一次计数，一次取数（GORM执行器不可复用）
	base := func() *gorm.DB {
		query := r.db.Model(&model.Room{}).
			Joins("JOIN topic ON topic.id = room.topic_id")
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			query = query.Where(
				"LOWER(topic.name) LIKE ? OR LOWER(room.name) LIKE ? OR LOWER(room.description) LIKE ?",
				like, like, like,
			)
		}
		return query
	}

	var count int64
	if err := base().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rooms []*model.Room
	err := base().
		Preload("Host").
		Preload("Topic").
		Preload("Participants").
		Order("room.updated_at DESC, room.created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}

	return rooms, count, nil
}

// ByHost 获取某用户主持的全部房间
func (r *RoomRepository) ByHost(hostID uint) ([]*model.Room, error) {
	var rooms []*model.Room
	err := r.db.
		Preload("Host").
		Preload("Topic").
		Where("host_id = ?", hostID).
		Order("updated_at DESC, created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

// Update 保存房间修改
func (r *RoomRepository) Update(room *model.Room) error {
	return r.db.Save(room).Error
}

// AddParticipant 将用户加入房间参与者集合
// 联结表以主键对去重，重复加入不会产生重复行
func (r *RoomRepository) AddParticipant(room *model.Room, user *model.User) error {
	return r.db.Model(room).Association("Participants").Append(user)
}

// Delete 删除房间并级联清理
// 全局配置禁用了默认事务，这里显式开事务：留言、参与者关系、房间本体一起删
func (r *RoomRepository) Delete(room *model.Room) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Model(room).Association("Participants").Clear(); err != nil {
			return err
		}
		return tx.Delete(room).Error
	})
}
