package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forum-system/config"
	"forum-system/internal/handler"
	"forum-system/internal/model"
	"forum-system/internal/repository"
	"forum-system/internal/service"
	dbPkg "forum-system/pkg/db"
	"forum-system/pkg/jwt"
	"forum-system/pkg/logger"
	redisPkg "forum-system/pkg/redis"
	"forum-system/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 论坛系统启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("session_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	if _, err := dbPkg.InitDB(cfg.Database); err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(&model.User{}, &model.Topic{}, &model.Room{}, &model.Message{}); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 初始化Redis（缓存为尽力而为，连不上不影响启动）
	if err := redisPkg.InitRedis(cfg.Redis); err != nil {
		log.Warn("Redis连接失败，缓存功能不可用", zap.Error(err))
	} else {
		redisPkg.SetActivityCacheConfig(cfg.Cache.ActivityTTL, cfg.Cache.ActivityMax)
		log.Info("Redis连接成功")
	}
	defer func() {
		if err := redisPkg.Close(); err != nil {
			log.Error("关闭Redis连接失败", zap.Error(err))
		}
	}()

	// 3.3 初始化业务服务
	db := dbPkg.GetDB()
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authSvc := service.NewAuthService(userRepo, jwtSvc)
	roomSvc := service.NewRoomService(roomRepo, topicRepo, messageRepo)
	messageSvc := service.NewMessageService(messageRepo, roomRepo)
	userSvc := service.NewUserService(userRepo, roomRepo, messageRepo, topicRepo)

	authHandler := handler.NewAuthHandler(authSvc, userRepo, jwtSvc)
	roomHandler := handler.NewRoomHandler(roomSvc, messageSvc, userRepo)
	messageHandler := handler.NewMessageHandler(messageSvc, userRepo)
	userHandler := handler.NewUserHandler(userSvc, userRepo, cfg.Upload)
	topicHandler := handler.NewTopicHandler(topicRepo, messageSvc, userRepo)

	// 4. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 创建Gin路由
	router := gin.New()

	// 注入配置到Gin context，供WebSocket使用
	router.Use(func(c *gin.Context) {
		c.Set("jwt_config", cfg.JWT)
		c.Set("ws_config", cfg.WebSocket)
		c.Next()
	})

	// 使用中间件
	router.Use(logger.LoggerMiddleware())      // 自定义日志中间件
	router.Use(logger.ErrorLoggerMiddleware()) // 错误日志中间件
	router.Use(jwtSvc.SessionMiddleware())     // 会话解析中间件

	// 6. 模板与静态资源
	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "web/static")

	// 7. 页面路由
	// 认证
	router.GET("/login/", authHandler.LoginPage)
	router.POST("/login/", authHandler.Login)
	router.GET("/logout/", authHandler.Logout)
	router.GET("/register/", authHandler.RegisterPage)
	router.POST("/register/", authHandler.Register)

	// 首页与浏览
	router.GET("/", roomHandler.Home)
	router.GET("/profile/:id/", userHandler.Profile)
	router.GET("/room/:id/", roomHandler.RoomPage)
	router.GET("/topics/", topicHandler.Topics)
	router.GET("/activity/", topicHandler.Activity)

	// 需要登录的操作
	auth := jwtSvc.RequireLogin()
	router.POST("/room/:id/", auth, roomHandler.PostMessage)
	router.GET("/create-room/", auth, roomHandler.CreateRoomPage)
	router.POST("/create-room/", auth, roomHandler.CreateRoom)
	router.GET("/update-room/:id", auth, roomHandler.UpdateRoomPage)
	router.POST("/update-room/:id", auth, roomHandler.UpdateRoom)
	router.GET("/delete-room/:id", auth, roomHandler.DeleteRoomPage)
	router.POST("/delete-room/:id", auth, roomHandler.DeleteRoom)
	router.GET("/delete-message/:id", auth, messageHandler.DeleteMessagePage)
	router.POST("/delete-message/:id", auth, messageHandler.DeleteMessage)
	router.GET("/update-user/", auth, userHandler.UpdateUserPage)
	router.POST("/update-user/", auth, userHandler.UpdateUser)

	// 房间实时消息订阅
	router.GET("/ws/rooms/:id", websocket.WsRoomHandler)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := dbPkg.HealthCheck(); err != nil {
			status = "db-down"
		} else if err := redisPkg.HealthCheck(); err != nil {
			status = "cache-down"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 8. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 9. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 10. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	// 设置关闭超时
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 关闭HTTP服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
