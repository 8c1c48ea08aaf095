package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionIDKey = "session_id"

// EnsureSession 确保每个请求都带有稳定的匿名会话标识。
// 首次访问时生成一个 UUID 并写入会话 Cookie，之后保持不变。
func EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if id, ok := sess.Get(sessionIDKey).(string); !ok || id == "" {
			sess.Set(sessionIDKey, uuid.NewString())
			_ = sess.Save()
		}
		c.Next()
	}
}

// sessionID 读取当前请求的会话标识
func sessionID(c *gin.Context) string {
	sess := sessions.Default(c)
	if id, ok := sess.Get(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
