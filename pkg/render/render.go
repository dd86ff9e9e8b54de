package render

import (
	"net/http"

	"forum-system/internal/model"

	"github.com/gin-gonic/gin"
)

// HTML 渲染页面模板
func HTML(c *gin.Context, name string, data gin.H) {
	c.HTML(http.StatusOK, name, data)
}

// Redirect 302重定向
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// Forbidden 所有权校验失败时的拒绝响应（纯文本，不重定向）
func Forbidden(c *gin.Context) {
	c.String(http.StatusForbidden, "无权进行此操作")
	c.Abort()
}

// NotFound 资源不存在时的404响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "页面不存在"
	}
	c.String(http.StatusNotFound, message)
	c.Abort()
}

// InternalError 服务端错误响应
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	c.String(http.StatusInternalServerError, message)
	c.Abort()
}

// UserView 用户视图（隐藏敏感字段）
type UserView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Name      string `json:"name"` // 展示名：昵称优先，否则用户名
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
}

// FilterUserInfo 过滤用户信息，隐藏敏感字段
func FilterUserInfo(user *model.User) *UserView {
	if user == nil {
		return nil
	}

	name := user.Nickname
	if name == "" {
		name = user.Username
	}

	return &UserView{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Name:      name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// FilterUserList 过滤用户列表
func FilterUserList(users []*model.User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, FilterUserInfo(u))
	}
	return views
}

// TopicView 话题视图
type TopicView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	RoomCount int64  `json:"room_count"`
}

// FilterTopicInfo 过滤话题信息
func FilterTopicInfo(topic *model.Topic) *TopicView {
	if topic == nil {
		return nil
	}
	return &TopicView{
		ID:   topic.ID,
		Name: topic.Name,
	}
}

// FilterTopicList 过滤话题列表
func FilterTopicList(topics []*model.Topic) []*TopicView {
	views := make([]*TopicView, 0, len(topics))
	for _, t := range topics {
		views = append(views, FilterTopicInfo(t))
	}
	return views
}

// RoomView 房间视图
type RoomView struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Host         *UserView   `json:"host"`
	Topic        string      `json:"topic"`
	Participants []*UserView `json:"participants,omitempty"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

// FilterRoomInfo 过滤房间信息
func FilterRoomInfo(room *model.Room) *RoomView {
	if room == nil {
		return nil
	}

	view := &RoomView{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		Host:        FilterUserInfo(room.Host),
		CreatedAt:   room.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   room.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if room.Topic != nil {
		view.Topic = room.Topic.Name
	}
	if len(room.Participants) > 0 {
		view.Participants = FilterUserList(room.Participants)
	}
	return view
}

// FilterRoomList 过滤房间列表
func FilterRoomList(rooms []*model.Room) []*RoomView {
	views := make([]*RoomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, FilterRoomInfo(r))
	}
	return views
}

// MessageView 留言视图（同时作为WebSocket推送载荷）
type MessageView struct {
	ID        uint      `json:"id"`
	User      *UserView `json:"user"`
	RoomID    uint      `json:"room_id"`
	RoomName  string    `json:"room_name,omitempty"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
}

// FilterMessageInfo 过滤留言信息
func FilterMessageInfo(message *model.Message) *MessageView {
	if message == nil {
		return nil
	}

	view := &MessageView{
		ID:        message.ID,
		User:      FilterUserInfo(message.User),
		RoomID:    message.RoomID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if message.Room != nil {
		view.RoomName = message.Room.Name
	}
	return view
}

// FilterMessageList 过滤留言列表
func FilterMessageList(messages []*model.Message) []*MessageView {
	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, FilterMessageInfo(m))
	}
	return views
}
