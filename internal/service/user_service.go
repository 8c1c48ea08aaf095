package service

import (
	"errors"
	"strings"

	"github.com/tankapool/internal/db"
	"gorm.io/gorm"
)

var ErrSessionRequired = errors.New("session id is required")

// UserService 依据会话标识维护匿名用户
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// GetOrCreate 按会话标识查找用户，不存在时创建。
// 同一会话的并发首次请求可能撞上唯一约束，此时重查一次而不是把错误抛给调用方。
func (s *UserService) GetOrCreate(sessionID string) (uint, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, ErrSessionRequired
	}

	var user db.User
	err := s.db.Where("session_id = ?", sessionID).First(&user).Error
	if err == nil {
		return user.UserID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	user = db.User{SessionID: sessionID}
	if createErr := s.db.Create(&user).Error; createErr != nil {
		if lookupErr := s.db.Where("session_id = ?", sessionID).First(&user).Error; lookupErr != nil {
			return 0, createErr
		}
	}
	return user.UserID, nil
}
