package handler

import (
	"strconv"

	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// currentUser 加载当前登录用户，匿名或加载失败时返回nil
// 会话中间件只存放用户ID，完整记录按需查库
func currentUser(c *gin.Context, users *repository.UserRepository) *model.User {
	uid := jwt.GetUserID(c)
	if uid == 0 {
		return nil
	}
	user, err := users.GetByID(uid)
	if err != nil {
		return nil
	}
	return user
}

// parseID 解析路径参数中的资源ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
