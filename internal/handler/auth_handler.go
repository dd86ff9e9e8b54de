package handler

import (
	"errors"

	"forum-system/internal/repository"
	"forum-system/internal/service"
	"forum-system/pkg/jwt"
	"forum-system/pkg/logger"
	"forum-system/pkg/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 注册登录相关页面
type AuthHandler struct {
	auth       *service.AuthService
	users      *repository.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthHandler 创建AuthHandler实例
func NewAuthHandler(auth *service.AuthService, users *repository.UserRepository, jwtService *jwt.JWTService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, jwtService: jwtService}
}

// LoginPage 登录页
func (h *AuthHandler) LoginPage(c *gin.Context) {
	// 已登录用户直接回首页
	if jwt.GetUserID(c) != 0 {
		render.Redirect(c, "/")
		return
	}
	render.HTML(c, "login_register.html", gin.H{
		"Page": "login",
	})
}

// Login 登录提交
// 查找失败与密码错误对外统一提示，不泄露用户是否存在
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	plainPassword := c.PostForm("password")

	user, token, err := h.auth.Login(username, plainPassword)
	if err != nil {
		// 凭证错误之外的失败（数据库不可用等）单独记录，不误导用户改密码
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.Error("登录失败", zap.Error(err), zap.String("username", username))
			render.HTML(c, "login_register.html", gin.H{
				"Page":     "login",
				"Error":    "登录时发生错误，请稍后重试",
				"Username": username,
			})
			return
		}
		render.HTML(c, "login_register.html", gin.H{
			"Page":     "login",
			"Error":    "用户名或密码错误",
			"Username": username,
		})
		return
	}

	h.jwtService.SetSessionCookie(c, token)
	logger.Info("用户登录",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)
	render.Redirect(c, "/")
}

// Logout 登出：清除会话Cookie后回首页，总是成功
func (h *AuthHandler) Logout(c *gin.Context) {
	h.jwtService.ClearSessionCookie(c)
	render.Redirect(c, "/")
}

// RegisterPage 注册页
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if jwt.GetUserID(c) != 0 {
		render.Redirect(c, "/")
		return
	}
	render.HTML(c, "login_register.html", gin.H{
		"Page": "register",
	})
}

// Register 注册提交
// 校验失败时带字段错误回显表单；成功后立即登录并回首页
func (h *AuthHandler) Register(c *gin.Context) {
	in := service.RegisterInput{
		Username:        c.PostForm("username"),
		Email:           c.PostForm("email"),
		Nickname:        c.PostForm("nickname"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
	}

	user, token, fieldErrs, err := h.auth.Register(in)
	if err != nil {
		logger.Error("注册失败", zap.Error(err))
		render.HTML(c, "login_register.html", gin.H{
			"Page":  "register",
			"Error": "注册时发生错误，请稍后重试",
		})
		return
	}
	if fieldErrs.HasErrors() {
		render.HTML(c, "login_register.html", gin.H{
			"Page":        "register",
			"FieldErrors": fieldErrs,
			"Username":    in.Username,
			"Email":       in.Email,
			"Nickname":    in.Nickname,
		})
		return
	}

	h.jwtService.SetSessionCookie(c, token)
	logger.Info("新用户注册",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)
	render.Redirect(c, "/")
}
