package db

import "time"

// User 定义了匿名用户模型，按浏览器会话在首次交换时惰性创建
type User struct {
	UserID    uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	SessionID string    `gorm:"column:session_id;size:255;uniqueIndex;not null" json:"-"`
	Username  string    `gorm:"size:50" json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 保持与既有数据库结构一致
func (User) TableName() string {
	return "users"
}
