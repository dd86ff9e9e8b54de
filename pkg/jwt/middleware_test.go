package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forum-system/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter 组装带会话中间件的测试路由
// /open 任何人可访问，/protected 需要登录
func newTestRouter(svc *jwt.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(svc.SessionMiddleware())
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, "uid=%d", jwt.GetUserID(c))
	})
	r.GET("/protected", svc.RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "uid=%d", jwt.GetUserID(c))
	})
	r.GET("/whoami", func(c *gin.Context) {
		subject := ""
		if claims := jwt.GetClaims(c); claims != nil {
			subject = claims.Subject
		}
		c.String(http.StatusOK, "name=%s sub=%s", jwt.GetUsername(c), subject)
	})
	return r
}

func TestSessionMiddleware_Anonymous(t *testing.T) {
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	// 无Cookie按匿名放行，用户ID为0
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uid=0", w.Body.String())
}

func TestSessionMiddleware_WithCookie(t *testing.T) {
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	token, err := svc.GenerateToken("42", map[string]interface{}{"username": "alice"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: svc.CookieName(), Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, "uid=42", w.Body.String())
}

func TestSessionMiddleware_StoresUsernameAndClaims(t *testing.T) {
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	token, err := svc.GenerateToken("42", map[string]interface{}{"username": "alice"})
	require.NoError(t, err)

	// 中间件应把用户名和声明一并存入Context
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: svc.CookieName(), Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, "name=alice sub=42", w.Body.String())

	// 匿名请求两者皆空
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, "name= sub=", w.Body.String())
}

func TestSessionMiddleware_InvalidCookie(t *testing.T) {
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	// 坏Cookie不拦截请求，按匿名处理
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: svc.CookieName(), Value: "garbage"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uid=0", w.Body.String())
}

func TestSessionMiddleware_QueryToken(t *testing.T) {
	// WebSocket握手场景：令牌走查询参数
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	token, err := svc.GenerateToken("7", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open?token="+token, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, "uid=7", w.Body.String())
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	// 匿名访问受保护路由重定向到登录页
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, jwt.LoginPath, w.Header().Get("Location"))
}

func TestRequireLogin_AllowsAuthenticated(t *testing.T) {
	svc := newService("secret-a", time.Hour)
	r := newTestRouter(svc)

	token, err := svc.GenerateToken("42", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: svc.CookieName(), Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uid=42", w.Body.String())
}
