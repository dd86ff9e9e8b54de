package jwt

import (
	"net/http"
	"strconv"
	"strings"

	"forum-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextUserIDKey 用户ID在gin.Context中的键名
	ContextUserIDKey = "user_id"
	// ContextUsernameKey 用户名在gin.Context中的键名
	ContextUsernameKey = "username"
	// ContextClaimsKey JWT声明在gin.Context中的键名
	ContextClaimsKey = "jwt_claims"

	// LoginPath 未认证用户被重定向到的登录页
	LoginPath = "/login/"
)

// SetSessionCookie 登录成功后下发会话Cookie
func (s *JWTService) SetSessionCookie(c *gin.Context, token string) {
	c.SetCookie(s.cookieName, token, s.ExpireSeconds(), "/", "", false, true)
}

// ClearSessionCookie 登出时清除会话Cookie
func (s *JWTService) ClearSessionCookie(c *gin.Context) {
	c.SetCookie(s.cookieName, "", -1, "/", "", false, true)
}

// extractToken 从请求中提取令牌
// 页面请求走Cookie；WebSocket等场景可走查询参数或Bearer请求头
func (s *JWTService) extractToken(c *gin.Context) string {
	if token, err := c.Cookie(s.cookieName); err == nil && token != "" {
		return token
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionMiddleware 会话解析中间件
// 尽力解析会话令牌并将用户信息存入gin.Context，不拦截请求
// 匿名用户照常通过，由 RequireLogin 决定是否放行
func (s *JWTService) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := s.extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			// 无效或过期的Cookie按匿名处理
			logger.Warn("会话令牌无效",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 32)
		if err != nil || userID == 0 {
			c.Next()
			return
		}

		username := ""
		if claims.Data != nil {
			if u, ok := claims.Data["username"].(string); ok {
				username = u
			}
		}

		// 将用户信息存入Context
		c.Set(ContextUserIDKey, uint(userID))
		c.Set(ContextUsernameKey, username)
		c.Set(ContextClaimsKey, claims)

		c.Next()
	}
}

// RequireLogin 登录保护中间件
// 匿名用户重定向到登录页，不执行被保护的处理函数
func (s *JWTService) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从gin.Context中获取当前用户ID，匿名时为0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := userID.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUsername 从gin.Context中获取当前用户名
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsernameKey); exists {
		if name, ok := username.(string); ok {
			return name
		}
	}
	return ""
}

// GetClaims 从gin.Context中获取JWT声明
func GetClaims(c *gin.Context) *CustomClaims {
	if claims, exists := c.Get(ContextClaimsKey); exists {
		if cc, ok := claims.(*CustomClaims); ok {
			return cc
		}
	}
	return nil
}
