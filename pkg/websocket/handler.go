package websocket

import (
	"net/http"
	"strconv"
	"time"

	"forum-system/config"
	"forum-system/internal/repository"
	dbPkg "forum-system/pkg/db"
	"forum-system/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// WsRoomHandler 房间实时消息订阅入口
// 需要有效会话令牌：优先查询参数token，其次会话Cookie
func WsRoomHandler(c *gin.Context) {
	jwtCfg := c.MustGet("jwt_config").(config.JWTConfig) // 需在main.go注入
	wsCfg := c.MustGet("ws_config").(config.WebSocketConfig)
	jwtSvc := jwt.NewJWTService(jwtCfg)

	token := c.Query("token")
	if token == "" {
		token, _ = c.Cookie(jwtSvc.CookieName())
	}
	if token == "" {
		c.String(http.StatusUnauthorized, "缺少会话令牌")
		return
	}

	claims, err := jwtSvc.ValidateToken(token)
	if err != nil {
		c.String(http.StatusUnauthorized, "会话令牌无效或已过期")
		return
	}
	userID, _ := strconv.ParseUint(claims.Subject, 10, 32)
	if userID == 0 {
		c.String(http.StatusUnauthorized, "会话令牌无效")
		return
	}

	// 校验房间存在
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || roomID == 0 {
		c.String(http.StatusBadRequest, "房间ID无效")
		return
	}
	roomRepo := repository.NewRoomRepository(dbPkg.GetDB())
	if _, err := roomRepo.GetByID(uint(roomID)); err != nil {
		c.String(http.StatusNotFound, "房间不存在")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &Client{
		RoomID: uint(roomID),
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
	GetManager().AddClient(client)

	go writePump(client, wsCfg)
	go readPump(client, wsCfg)
}

// writePump 将Send通道里的消息写入连接，并定期发送ping
func writePump(client *Client, cfg config.WebSocketConfig) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				// 通道已关闭，连接已被移除
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 维持读循环以感知断开
// 订阅是单向的：客户端发来的数据一律丢弃，留言走HTTP表单
func readPump(client *Client, cfg config.WebSocketConfig) {
	defer func() {
		GetManager().RemoveClient(client)
		client.Conn.Close()
	}()

	_ = client.Conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
		_ = client.Conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}
