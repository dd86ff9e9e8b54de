package service

import (
	"errors"
	"fmt"
	"strings"

	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/pkg/jwt"
	"forum-system/pkg/password"
)

// AuthService 注册登录服务
type AuthService struct {
	users      *repository.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthService 创建AuthService实例
func NewAuthService(users *repository.UserRepository, jwtService *jwt.JWTService) *AuthService {
	return &AuthService{users: users, jwtService: jwtService}
}

// RegisterInput 注册表单输入
type RegisterInput struct {
	Username        string
	Email           string
	Nickname        string
	Password        string
	ConfirmPassword string
}

// Register 注册新用户并签发会话令牌
// 用户名统一转为小写存储；校验失败时返回字段级错误供表单回显
func (s *AuthService) Register(in RegisterInput) (*model.User, string, FieldErrors, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)

	fieldErrs := FieldErrors{}
	if in.Username == "" {
		fieldErrs["username"] = "用户名不能为空"
	}
	if in.Password == "" {
		fieldErrs["password"] = "密码不能为空"
	} else if len(in.Password) < 6 {
		fieldErrs["password"] = "密码长度至少6位"
	}
	if in.Password != in.ConfirmPassword {
		fieldErrs["confirm_password"] = "两次输入的密码不一致"
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		fieldErrs["email"] = "邮箱格式不正确"
	}

	// 唯一性校验
	if in.Username != "" {
		if taken, err := s.users.ExistsByUsername(in.Username); err != nil {
			return nil, "", nil, err
		} else if taken {
			fieldErrs["username"] = "该用户名已被占用"
		}
	}
	if in.Email != "" {
		if taken, err := s.users.ExistsByEmail(in.Email); err != nil {
			return nil, "", nil, err
		} else if taken {
			fieldErrs["email"] = "该邮箱已被注册"
		}
	}

	if fieldErrs.HasErrors() {
		return nil, "", fieldErrs, nil
	}

	// 密码哈希
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, "", nil, err
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		Nickname:     in.Nickname,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", nil, err
	}

	// 注册成功即登录
	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", nil, err
	}
	return user, token, nil, nil
}

// Login 登录
// 任何查找或凭证失败都立即以 ErrInvalidCredentials 结束，对外不区分原因
func (s *AuthService) Login(username, plainPassword string) (*model.User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || plainPassword == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// issueToken 以用户ID为Subject签发会话令牌
func (s *AuthService) issueToken(user *model.User) (string, error) {
	return s.jwtService.GenerateToken(
		fmt.Sprintf("%d", user.ID),
		map[string]interface{}{"username": user.Username},
	)
}
