package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"forum-system/config"
	"forum-system/internal/handler"
	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/internal/service"
	"forum-system/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newAuthRouter 组装登录注册路由（真实模板 + 内存数据库）
func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	users := repository.NewUserRepository(db)
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour, Issuer: "forum-test"})
	authSvc := service.NewAuthService(users, jwtSvc)
	h := handler.NewAuthHandler(authSvc, users, jwtSvc)

	r := gin.New()
	r.Use(jwtSvc.SessionMiddleware())
	r.LoadHTMLGlob("../../web/templates/*.html")
	r.GET("/login/", h.LoginPage)
	r.POST("/login/", h.Login)
	r.GET("/logout/", h.Logout)
	r.GET("/register/", h.RegisterPage)
	r.POST("/register/", h.Register)
	return r, db
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func registerForm(username string) url.Values {
	return url.Values{
		"username":         {username},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	}
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "forum_session" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register_NoEmail(t *testing.T) {
	r, _ := newAuthRouter(t)

	// 不填邮箱也能注册，先后两个用户都成功并拿到会话Cookie
	for _, username := range []string{"alice", "bob"} {
		w := postForm(r, "/register/", registerForm(username))
		assert.Equal(t, http.StatusFound, w.Code, "注册应重定向回首页")
		assert.Equal(t, "/", w.Header().Get("Location"))
		cookie := sessionCookie(w)
		require.NotNil(t, cookie, "注册成功应下发会话Cookie")
		assert.NotEmpty(t, cookie.Value)
	}
}

func TestAuthHandler_Register_FieldErrorsRerender(t *testing.T) {
	r, _ := newAuthRouter(t)

	form := registerForm("alice")
	form.Set("confirm_password", "mismatch")
	w := postForm(r, "/register/", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "两次输入的密码不一致")
	assert.Nil(t, sessionCookie(w), "校验失败不应下发会话Cookie")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	r, _ := newAuthRouter(t)
	postForm(r, "/register/", registerForm("alice"))

	w := postForm(r, "/login/", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "用户名或密码错误")
}

func TestAuthHandler_Login_ServerError(t *testing.T) {
	r, db := newAuthRouter(t)
	postForm(r, "/register/", registerForm("alice"))

	// 模拟数据库不可用：关闭底层连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := postForm(r, "/login/", url.Values{"username": {"alice"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusOK, w.Code)
	// 服务端故障不应伪装成凭证错误
	assert.Contains(t, w.Body.String(), "登录时发生错误，请稍后重试")
	assert.NotContains(t, w.Body.String(), "用户名或密码错误")
}
