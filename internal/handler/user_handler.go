package handler

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"forum-system/config"
	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/internal/service"
	"forum-system/pkg/logger"
	"forum-system/pkg/render"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 头像允许的扩展名
var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UserHandler 用户资料相关页面
type UserHandler struct {
	userService *service.UserService
	users       *repository.UserRepository
	uploadCfg   config.UploadConfig
}

// NewUserHandler 创建UserHandler实例
func NewUserHandler(userService *service.UserService, users *repository.UserRepository, uploadCfg config.UploadConfig) *UserHandler {
	return &UserHandler{userService: userService, users: users, uploadCfg: uploadCfg}
}

// Profile 个人主页：公开资料、主持的房间、最近留言、话题列表
func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		render.NotFound(c, "用户不存在")
		return
	}

	data, err := h.userService.Profile(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			render.NotFound(c, "用户不存在")
			return
		}
		logger.Error("加载个人主页失败", zap.Error(err), zap.Uint("user_id", id))
		render.InternalError(c, "")
		return
	}

	render.HTML(c, "profile.html", gin.H{
		"User":         render.FilterUserInfo(currentUser(c, h.users)),
		"Profile":      render.FilterUserInfo(data.User),
		"Rooms":        render.FilterRoomList(data.Rooms),
		"RoomMessages": render.FilterMessageList(data.RoomMessages),
		"Topics":       render.FilterTopicList(data.Topics),
	})
}

// UpdateUserPage 资料修改表单页（需登录，仅本人）
func (h *UserHandler) UpdateUserPage(c *gin.Context) {
	user := currentUser(c, h.users)
	if user == nil {
		render.Redirect(c, "/login/")
		return
	}

	view := render.FilterUserInfo(user)
	render.HTML(c, "update_user.html", gin.H{
		"User":     view,
		"Username": view.Username,
		"Email":    view.Email,
		"Nickname": view.Nickname,
		"Bio":      view.Bio,
	})
}

// UpdateUser 资料修改提交（需登录，仅本人）
// 支持multipart头像上传：校验大小与扩展名，按uuid重命名后落盘
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user := currentUser(c, h.users)
	if user == nil {
		render.Redirect(c, "/login/")
		return
	}

	in := service.UpdateProfileInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Nickname: c.PostForm("nickname"),
		Bio:      c.PostForm("bio"),
	}

	// 头像可选：未上传时保持原头像
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		avatarPath, uploadErr := h.saveAvatar(file.Filename, file.Size, func(dst string) error {
			return c.SaveUploadedFile(file, dst)
		})
		if uploadErr != nil {
			h.renderForm(c, user, in, service.FieldErrors{"avatar": uploadErr.Error()})
			return
		}
		in.AvatarPath = avatarPath
	}

	fieldErrs, err := h.userService.UpdateProfile(user, in)
	if err != nil {
		logger.Error("修改资料失败", zap.Error(err), zap.Uint("user_id", user.ID))
		render.InternalError(c, "")
		return
	}
	if fieldErrs.HasErrors() {
		h.renderForm(c, user, in, fieldErrs)
		return
	}

	render.Redirect(c, fmt.Sprintf("/profile/%d/", user.ID))
}

// renderForm 带错误回显资料表单
func (h *UserHandler) renderForm(c *gin.Context, user *model.User, in service.UpdateProfileInput, fieldErrs service.FieldErrors) {
	render.HTML(c, "update_user.html", gin.H{
		"User":        render.FilterUserInfo(user),
		"FieldErrors": fieldErrs,
		"Username":    in.Username,
		"Email":       in.Email,
		"Nickname":    in.Nickname,
		"Bio":         in.Bio,
	})
}

// avatarURL 由上传目录推导头像的对外访问路径
// 上传目录必须位于 web/static 之下（静态文件按 /static 前缀暴露，见main.go）
func (h *UserHandler) avatarURL(name string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(h.uploadCfg.Dir), "web/static")
	return path.Join("/static", rel, name)
}

// saveAvatar 校验并保存头像文件，返回可访问的相对路径
func (h *UserHandler) saveAvatar(filename string, size int64, save func(dst string) error) (string, error) {
	if size > h.uploadCfg.MaxSize<<20 {
		return "", fmt.Errorf("头像文件不能超过%dMB", h.uploadCfg.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedAvatarExts[ext] {
		return "", errors.New("头像仅支持jpg/jpeg/png/gif/webp格式")
	}

	if err := os.MkdirAll(h.uploadCfg.Dir, 0755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(h.uploadCfg.Dir, name)
	if err := save(dst); err != nil {
		return "", fmt.Errorf("保存头像失败: %w", err)
	}

	return h.avatarURL(name), nil
}
