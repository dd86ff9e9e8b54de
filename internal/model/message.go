package model

import (
	"time"

	"gorm.io/gorm"
)

// Message 房间留言模型
// 每条留言归属一个用户（作者）和一个房间
// 只有作者可以删除自己的留言；删除房间时级联删除其下留言

type Message struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;index;comment:作者ID"`
	User      *User          `gorm:"foreignKey:UserID"`
	RoomID    uint           `gorm:"not null;index;comment:房间ID"`
	Room      *Room          `gorm:"foreignKey:RoomID"`
	Body      string         `gorm:"type:text;not null;comment:留言内容"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Message) TableName() string { return "message" }
