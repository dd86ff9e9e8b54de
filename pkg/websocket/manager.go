package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client 代表一个订阅了房间实时消息的WebSocket连接
// RoomID: 订阅的房间ID
// Conn: WebSocket连接
// Send: 发送消息的通道

type Client struct {
	RoomID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager 管理所有房间的WebSocket订阅者
// 按房间维度组织连接，支持并发安全的广播

type Manager struct {
	rooms map[uint]map[*Client]struct{} // roomID -> 订阅者集合
	lock  sync.RWMutex
}

var manager = &Manager{
	rooms: make(map[uint]map[*Client]struct{}),
}

// GetManager 获取全局WebSocket管理器
func GetManager() *Manager {
	return manager
}

// AddClient 将连接加入房间的订阅者集合
func (m *Manager) AddClient(client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	subscribers, ok := m.rooms[client.RoomID]
	if !ok {
		subscribers = make(map[*Client]struct{})
		m.rooms[client.RoomID] = subscribers
	}
	subscribers[client] = struct{}{}
}

// RemoveClient 将连接移出房间的订阅者集合
func (m *Manager) RemoveClient(client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if subscribers, ok := m.rooms[client.RoomID]; ok {
		if _, exists := subscribers[client]; exists {
			delete(subscribers, client)
			close(client.Send)
		}
		if len(subscribers) == 0 {
			delete(m.rooms, client.RoomID)
		}
	}
}

// BroadcastToRoom 向房间的所有订阅者推送消息
func (m *Manager) BroadcastToRoom(roomID uint, msg []byte) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for client := range m.rooms[roomID] {
		select {
		case client.Send <- msg:
		default:
			// 发送通道已满，可能连接已断开，跳过
		}
	}
}

// SubscriberCount 房间当前订阅者数量
func (m *Manager) SubscriberCount(roomID uint) int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.rooms[roomID])
}
