package model

import (
	"time"

	"gorm.io/gorm"

	usermodel "dofe-blog/pkg/core/user/model"
)

const MaxTitleLength = 100

// Post belongs to exactly one user. UserID and CreatedAt never change after
// insert; deleting a user who still owns posts is rejected by the foreign key.
type Post struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Title     string         `gorm:"type:varchar(100);not null"`
	Content   string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"index;not null;autoCreateTime:false"`
	UserID    int64          `gorm:"index;not null"`
	User      usermodel.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName 定义映射表名
func (Post) TableName() string {
	return "posts"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Post{})
}
