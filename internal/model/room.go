package model

import (
	"time"

	"gorm.io/gorm"
)

// Room 讨论房间模型
// 每个房间由一名用户（房主 Host）创建，归属一个话题
// Participants 为参与者集合：在房间内发过言的用户（多对多）
// 只有房主可以修改或删除房间

type Room struct {
	ID           uint           `gorm:"primaryKey"`
	Name         string         `gorm:"type:varchar(128);not null;comment:房间名称"`
	Description  string         `gorm:"type:text;comment:房间描述"`
	HostID       uint           `gorm:"not null;index;comment:房主ID"`
	Host         *User          `gorm:"foreignKey:HostID"`
	TopicID      uint           `gorm:"not null;index;comment:话题ID"`
	Topic        *Topic         `gorm:"foreignKey:TopicID"`
	Participants []*User        `gorm:"many2many:room_participant"`
	CreatedAt    time.Time      `gorm:"comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Room) TableName() string { return "room" }
