package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestManager() *Manager {
	return &Manager{rooms: make(map[uint]map[*Client]struct{})}
}

func TestManager_AddRemoveClient(t *testing.T) {
	m := newTestManager()
	c1 := &Client{RoomID: 1, Send: make(chan []byte, 1)}
	c2 := &Client{RoomID: 1, Send: make(chan []byte, 1)}

	m.AddClient(c1)
	m.AddClient(c2)
	assert.Equal(t, 2, m.SubscriberCount(1))

	m.RemoveClient(c1)
	assert.Equal(t, 1, m.SubscriberCount(1))

	// 重复移除不应panic（Send通道只关闭一次）
	m.RemoveClient(c1)
	assert.Equal(t, 1, m.SubscriberCount(1))

	m.RemoveClient(c2)
	assert.Equal(t, 0, m.SubscriberCount(1))
}

func TestManager_BroadcastToRoom(t *testing.T) {
	m := newTestManager()
	c1 := &Client{RoomID: 1, Send: make(chan []byte, 4)}
	c2 := &Client{RoomID: 2, Send: make(chan []byte, 4)}
	m.AddClient(c1)
	m.AddClient(c2)

	// 只广播给目标房间的订阅者
	m.BroadcastToRoom(1, []byte("hello"))
	assert.Len(t, c1.Send, 1)
	assert.Len(t, c2.Send, 0)

	msg := <-c1.Send
	assert.Equal(t, "hello", string(msg))

	// 不存在的房间广播是空操作
	m.BroadcastToRoom(99, []byte("void"))
}
