package model

import "time"

// Topic 话题模型
// 名称唯一，首次被房间引用时懒创建（get-or-create）
// 唯一索引保证并发创建同名话题时不会产生重复行
// 话题不提供删除入口，因此没有 DeletedAt

type Topic struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex;comment:话题名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (Topic) TableName() string { return "topic" }
