package model

import (
	"time"

	"gorm.io/gorm"
)

// User 账号凭据：用户名/邮箱/密码哈希。注册后不再修改，也没有删除路径。
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(80);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName 定义映射表名
func (User) TableName() string {
	return "users"
}

func (u User) String() string {
	return "<User " + u.Username + ">"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
