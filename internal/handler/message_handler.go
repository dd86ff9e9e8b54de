package handler

import (
	"errors"
	"fmt"

	"forum-system/internal/repository"
	"forum-system/internal/service"
	"forum-system/pkg/logger"
	"forum-system/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler 留言相关页面
type MessageHandler struct {
	messages *service.MessageService
	users    *repository.UserRepository
}

// NewMessageHandler 创建MessageHandler实例
func NewMessageHandler(messages *service.MessageService, users *repository.UserRepository) *MessageHandler {
	return &MessageHandler{messages: messages, users: users}
}

// DeleteMessagePage 删留言确认页（需登录且为作者）
func (h *MessageHandler) DeleteMessagePage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "留言不存在")
		return
	}

	message, err := h.messages.GetMessage(id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			render.NotFound(c, "留言不存在")
			return
		}
		render.InternalError(c, "")
		return
	}

	user := currentUser(c, h.users)
	if !service.CanModify(user, message.UserID) {
		render.Forbidden(c)
		return
	}

	render.HTML(c, "delete.html", gin.H{
		"User":       render.FilterUserInfo(user),
		"ObjectName": message.Body,
	})
}

// DeleteMessage 删留言提交（需登录且为作者），完成后回所在房间页
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "留言不存在")
		return
	}

	user := currentUser(c, h.users)
	roomID, err := h.messages.DeleteMessage(user, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			render.NotFound(c, "留言不存在")
		case errors.Is(err, service.ErrPermissionDenied):
			render.Forbidden(c)
		default:
			logger.Error("删除留言失败", zap.Error(err), zap.Uint("message_id", id))
			render.InternalError(c, "")
		}
		return
	}

	logger.Info("删除留言", zap.Uint("message_id", id), zap.Uint("user_id", user.ID))
	render.Redirect(c, fmt.Sprintf("/room/%d/", roomID))
}
