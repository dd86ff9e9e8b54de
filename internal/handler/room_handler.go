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

// RoomHandler 房间相关页面
type RoomHandler struct {
	rooms    *service.RoomService
	messages *service.MessageService
	users    *repository.UserRepository
}

// NewRoomHandler 创建RoomHandler实例
func NewRoomHandler(rooms *service.RoomService, messages *service.MessageService, users *repository.UserRepository) *RoomHandler {
	return &RoomHandler{rooms: rooms, messages: messages, users: users}
}

// Home 首页：房间列表 + 话题侧栏 + 最近留言
// 查询参数q对话题名、房间名、描述做子串匹配（三者取或）
func (h *RoomHandler) Home(c *gin.Context) {
	q := c.Query("q")

	data, err := h.rooms.Home(q)
	if err != nil {
		logger.Error("加载首页失败", zap.Error(err), zap.String("q", q))
		render.InternalError(c, "")
		return
	}

	topics := make([]*render.TopicView, 0, len(data.Topics))
	for _, t := range data.Topics {
		topics = append(topics, &render.TopicView{
			ID:        t.ID,
			Name:      t.Name,
			RoomCount: t.RoomCount,
		})
	}

	render.HTML(c, "home.html", gin.H{
		"User":         render.FilterUserInfo(currentUser(c, h.users)),
		"Rooms":        render.FilterRoomList(data.Rooms),
		"RoomCount":    data.RoomCount,
		"Topics":       topics,
		"AllTopics":    render.FilterTopicList(data.AllTopics),
		"RoomMessages": render.FilterMessageList(data.RoomMessages),
		"Query":        q,
	})
}

// RoomPage 房间页：留言（发表顺序）与参与者列表
func (h *RoomHandler) RoomPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "房间不存在")
		return
	}

	room, messages, err := h.rooms.GetRoom(id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			render.NotFound(c, "房间不存在")
			return
		}
		logger.Error("加载房间失败", zap.Error(err), zap.Uint("room_id", id))
		render.InternalError(c, "")
		return
	}

	user := currentUser(c, h.users)
	views := h.rooms.VisitRoom(room.ID)

	render.HTML(c, "room.html", gin.H{
		"User":         render.FilterUserInfo(user),
		"Room":         render.FilterRoomInfo(room),
		"RoomMessages": render.FilterMessageList(messages),
		"Participants": render.FilterUserList(room.Participants),
		"Views":        views,
		"IsHost":       user != nil && user.ID == room.HostID,
	})
}

// PostMessage 在房间内发表留言（需登录）
// 副作用：作者进入参与者列表；完成后重定向回房间页
func (h *RoomHandler) PostMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "房间不存在")
		return
	}

	user := currentUser(c, h.users)
	if user == nil {
		render.Redirect(c, "/login/")
		return
	}

	body := c.PostForm("body")
	if _, err := h.messages.PostMessage(user, id, body); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			render.NotFound(c, "房间不存在")
			return
		}
		// 空留言等输入问题直接回房间页
		logger.Warn("发表留言失败", zap.Error(err), zap.Uint("room_id", id))
	}

	render.Redirect(c, fmt.Sprintf("/room/%d/", id))
}

// CreateRoomPage 建房表单页（需登录）
func (h *RoomHandler) CreateRoomPage(c *gin.Context) {
	topics, err := h.rooms.Topics()
	if err != nil {
		render.InternalError(c, "")
		return
	}
	render.HTML(c, "room_form.html", gin.H{
		"User":   render.FilterUserInfo(currentUser(c, h.users)),
		"Topics": render.FilterTopicList(topics),
	})
}

// CreateRoom 建房提交（需登录）
// 话题按名称get-or-create；房主为当前用户；成功后回首页
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	user := currentUser(c, h.users)
	if user == nil {
		render.Redirect(c, "/login/")
		return
	}

	name := c.PostForm("name")
	topicName := c.PostForm("topic")
	description := c.PostForm("description")

	room, err := h.rooms.CreateRoom(user, name, description, topicName)
	if err != nil {
		topics, _ := h.rooms.Topics()
		render.HTML(c, "room_form.html", gin.H{
			"User":        render.FilterUserInfo(user),
			"Topics":      render.FilterTopicList(topics),
			"Error":       err.Error(),
			"Name":        name,
			"TopicName":   topicName,
			"Description": description,
		})
		return
	}

	logger.Info("创建房间",
		zap.Uint("room_id", room.ID),
		zap.Uint("host_id", user.ID),
		zap.String("topic", topicName),
	)
	render.Redirect(c, "/")
}

// UpdateRoomPage 改房表单页（需登录且为房主）
func (h *RoomHandler) UpdateRoomPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "房间不存在")
		return
	}

	room, _, err := h.rooms.GetRoom(id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			render.NotFound(c, "房间不存在")
			return
		}
		render.InternalError(c, "")
		return
	}

	user := currentUser(c, h.users)
	if !service.CanModify(user, room.HostID) {
		render.Forbidden(c)
		return
	}

	topics, err := h.rooms.Topics()
	if err != nil {
		render.InternalError(c, "")
		return
	}

	view := render.FilterRoomInfo(room)
	render.HTML(c, "room_form.html", gin.H{
		"User":        render.FilterUserInfo(user),
		"Topics":      render.FilterTopicList(topics),
		"Room":        view,
		"Name":        view.Name,
		"TopicName":   view.Topic,
		"Description": view.Description,
	})
}

// UpdateRoom 改房提交（需登录且为房主）
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "房间不存在")
		return
	}

	user := currentUser(c, h.users)
	name := c.PostForm("name")
	topicName := c.PostForm("topic")
	description := c.PostForm("description")

	room, err := h.rooms.UpdateRoom(user, id, name, description, topicName)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			render.NotFound(c, "房间不存在")
		case errors.Is(err, service.ErrPermissionDenied):
			render.Forbidden(c)
		default:
			topics, _ := h.rooms.Topics()
			render.HTML(c, "room_form.html", gin.H{
				"User":        render.FilterUserInfo(user),
				"Topics":      render.FilterTopicList(topics),
				"Error":       err.Error(),
				"Name":        name,
				"TopicName":   topicName,
				"Description": description,
			})
		}
		return
	}

	render.Redirect(c, fmt.Sprintf("/room/%d/", room.ID))
}

// DeleteRoomPage 删房确认页（需登录且为房主）
func (h *RoomHandler) DeleteRoomPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "房间不存在")
		return
	}

	room, _, err := h.rooms.GetRoom(id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			render.NotFound(c, "房间不存在")
			return
		}
		render.InternalError(c, "")
		return
	}

	user := currentUser(c, h.users)
	if !service.CanModify(user, room.HostID) {
		render.Forbidden(c)
		return
	}

	render.HTML(c, "delete.html", gin.H{
		"User":       render.FilterUserInfo(user),
		"ObjectName": room.Name,
	})
}

// DeleteRoom 删房提交（需登录且为房主），级联删除房间留言
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "房间不存在")
		return
	}

	user := currentUser(c, h.users)
	if err := h.rooms.DeleteRoom(user, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			render.NotFound(c, "房间不存在")
		case errors.Is(err, service.ErrPermissionDenied):
			render.Forbidden(c)
		default:
			logger.Error("删除房间失败", zap.Error(err), zap.Uint("room_id", id))
			render.InternalError(c, "")
		}
		return
	}

	logger.Info("删除房间", zap.Uint("room_id", id), zap.Uint("user_id", user.ID))
	render.Redirect(c, "/")
}
