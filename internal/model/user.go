package model

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
// 用户名唯一（数据库唯一索引）；邮箱可留空，空串不参与唯一性，
// 非空邮箱的唯一性由服务层的 ExistsByEmail 校验
// 说明：用户名统一存储为小写；密码仅存储哈希（PasswordHash），不存储明文
// Avatar 保存头像文件的相对路径
// 本系统不提供删除用户的入口，DeletedAt 仅作保留

type User struct {
	ID           uint           `gorm:"primaryKey"`
	Username     string         `gorm:"type:varchar(64);not null;uniqueIndex;comment:用户名(小写)"`
	Email        string         `gorm:"type:varchar(128);index;comment:邮箱(可留空)"`
	PasswordHash string         `gorm:"type:varchar(255);not null;comment:密码哈希"`
	Nickname     string         `gorm:"type:varchar(64);comment:昵称"`
	Avatar       string         `gorm:"type:varchar(255);comment:头像路径"`
	Bio          string         `gorm:"type:text;comment:个人简介"`
	CreatedAt    time.Time      `gorm:"comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName 指定表名（因全局配置使用单数表名，这里与结构体名一致为 user）
func (User) TableName() string { return "user" }
