package service_test

import (
	"testing"

	"forum-system/internal/repository"
	"forum-system/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_PostMessage_JoinsParticipants(t *testing.T) {
	db, roomService, messageService := newForumServices(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	room, err := roomService.CreateRoom(alice, "并发模式", "", "golang")
	require.NoError(t, err)

	// 发言即成为参与者
	msg, err := messageService.PostMessage(bob, room.ID, "  沙发  ")
	require.NoError(t, err)
	assert.Equal(t, "沙发", msg.Body, "留言内容应去除首尾空白")

	got, _, err := roomService.GetRoom(room.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, "bob", got.Participants[0].Username)

	// 再次发言不会重复加入
	_, err = messageService.PostMessage(bob, room.ID, "又来了")
	require.NoError(t, err)
	got, messages, err := roomService.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 1)
	assert.Len(t, messages, 2)

	// 空内容报错
	_, err = messageService.PostMessage(bob, room.ID, "   ")
	assert.Error(t, err)

	// 房间不存在
	_, err = messageService.PostMessage(bob, 9999, "hello")
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestMessageService_DeleteMessage_AuthorOnly(t *testing.T) {
	db, roomService, messageService := newForumServices(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	room, err := roomService.CreateRoom(alice, "并发模式", "", "golang")
	require.NoError(t, err)
	msg, err := messageService.PostMessage(bob, room.ID, "沙发")
	require.NoError(t, err)

	// 房主也不能删别人的留言
	_, err = messageService.DeleteMessage(alice, msg.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	// 作者可以删，返回所在房间ID供跳转
	roomID, err := messageService.DeleteMessage(bob, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, roomID)

	_, err = messageService.GetMessage(msg.ID)
	assert.ErrorIs(t, err, repository.ErrMessageNotFound)
}

func TestMessageService_Activity(t *testing.T) {
	db, roomService, messageService := newForumServices(t)
	alice := createUser(t, db, "alice")

	room, err := roomService.CreateRoom(alice, "并发模式", "", "golang")
	require.NoError(t, err)
	_, err = messageService.PostMessage(alice, room.ID, "最早")
	require.NoError(t, err)
	second, err := messageService.PostMessage(alice, room.ID, "最新")
	require.NoError(t, err)

	// Redis未初始化时直接回源数据库，倒序排列
	activities, err := messageService.Activity()
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "最新", activities[0].Body)
	assert.Equal(t, room.ID, activities[0].RoomID)
	assert.Equal(t, "并发模式", activities[0].RoomName)
	assert.Equal(t, "alice", activities[0].Username)

	// 删除留言后动态同步消失
	_, err = messageService.DeleteMessage(alice, second.ID)
	require.NoError(t, err)
	activities, err = messageService.Activity()
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "最早", activities[0].Body)
}
