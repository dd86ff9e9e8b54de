package handler

import (
	"forum-system/internal/repository"
	"forum-system/internal/service"
	"forum-system/pkg/logger"
	"forum-system/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TopicHandler 话题与动态列表页面
type TopicHandler struct {
	topics   *repository.TopicRepository
	messages *service.MessageService
	users    *repository.UserRepository
}

// NewTopicHandler 创建TopicHandler实例
func NewTopicHandler(topics *repository.TopicRepository, messages *service.MessageService, users *repository.UserRepository) *TopicHandler {
	return &TopicHandler{topics: topics, messages: messages, users: users}
}

// Topics 话题列表页：名称子串匹配（大小写不敏感），q为空时列出全部
func (h *TopicHandler) Topics(c *gin.Context) {
	q := c.Query("q")

	topics, err := h.topics.Search(q)
	if err != nil {
		logger.Error("加载话题列表失败", zap.Error(err), zap.String("q", q))
		render.InternalError(c, "")
		return
	}

	render.HTML(c, "topics.html", gin.H{
		"User":   render.FilterUserInfo(currentUser(c, h.users)),
		"Topics": render.FilterTopicList(topics),
		"Query":  q,
	})
}

// Activity 全站动态页：全部留言倒序排列
func (h *TopicHandler) Activity(c *gin.Context) {
	activities, err := h.messages.Activity()
	if err != nil {
		logger.Error("加载动态失败", zap.Error(err))
		render.InternalError(c, "")
		return
	}

	render.HTML(c, "activity.html", gin.H{
		"User":       render.FilterUserInfo(currentUser(c, h.users)),
		"Activities": activities,
	})
}
