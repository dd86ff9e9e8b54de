package repository_test

import (
	"fmt"
	"testing"

	"forum-system/internal/model"
	"forum-system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDB 创建内存sqlite数据库并迁移全部表
// 命名策略与生产配置一致（单数表名），保证手写JOIN的表名能对上
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "打开内存数据库不应失败")

	err = db.AutoMigrate(&model.User{}, &model.Topic{}, &model.Room{}, &model.Message{})
	require.NoError(t, err, "建表不应失败")
	return db
}

// seedUser 插入一个测试用户
func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// seedRoom 插入一个话题+房间
func seedRoom(t *testing.T, db *gorm.DB, host *model.User, topicName, roomName, desc string) *model.Room {
	t.Helper()
	topics := repository.NewTopicRepository(db)
	topic, err := topics.GetOrCreate(topicName)
	require.NoError(t, err)
	room := &model.Room{Name: roomName, Description: desc, HostID: host.ID, TopicID: topic.ID}
	require.NoError(t, db.Create(room).Error)
	return room
}

// --- TopicRepository ---

func TestTopicRepository_GetOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTopicRepository(db)

	// 首次调用创建
	first, err := repo.GetOrCreate("golang")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	// 再次调用返回同一行，不产生重复
	second, err := repo.GetOrCreate("golang")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "同名话题应返回同一条记录")

	var count int64
	db.Model(&model.Topic{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// 首尾空白应被去掉
	trimmed, err := repo.GetOrCreate("  golang  ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, trimmed.ID)

	// 空名称报错
	_, err = repo.GetOrCreate("   ")
	assert.Error(t, err, "空话题名应返回错误")
}

func TestTopicRepository_Search_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTopicRepository(db)
	for _, name := range []string{"Golang", "Python", "数据库"} {
		_, err := repo.GetOrCreate(name)
		require.NoError(t, err)
	}

	// 大小写不敏感的子串匹配
	hits, err := repo.Search("GOLANG")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Golang", hits[0].Name)

	// 空关键词返回全部
	all, err := repo.Search("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTopicRepository_Top(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTopicRepository(db)
	host := seedUser(t, db, "alice")

	// golang话题下2个房间，python话题下1个
	seedRoom(t, db, host, "golang", "并发模式", "")
	seedRoom(t, db, host, "golang", "泛型实践", "")
	seedRoom(t, db, host, "python", "爬虫", "")

	top, err := repo.Top(5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "golang", top[0].Name, "房间数最多的话题应排在最前")
	assert.Equal(t, int64(2), top[0].RoomCount)
	assert.Equal(t, int64(1), top[1].RoomCount)
}

// --- UserRepository ---

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)

	_, err := repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	require.NoError(t, repo.Create(&model.User{Username: "alice", Email: "alice@test.com", PasswordHash: "x"}))

	taken, err := repo.ExistsByUsername("alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail("alice@test.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByUsername("bob")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_Create_EmptyEmailNotUnique(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)

	// 邮箱可留空：多个空邮箱用户不应触发唯一约束
	require.NoError(t, repo.Create(&model.User{Username: "alice", PasswordHash: "x"}))
	require.NoError(t, repo.Create(&model.User{Username: "bob", PasswordHash: "x"}))

	var count int64
	db.Model(&model.User{}).Where("email = ?", "").Count(&count)
	assert.Equal(t, int64(2), count)
}

// --- RoomRepository ---

func TestRoomRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewRoomRepository(db)
	host := seedUser(t, db, "alice")

	seedRoom(t, db, host, "golang", "并发模式讨论", "聊聊channel")
	seedRoom(t, db, host, "python", "Django入门", "web框架")
	seedRoom(t, db, host, "前端", "React房间", "关于golang的对比讨论")

	// 话题名命中
	rooms, count, err := repo.Search("GoLang")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "话题名和描述命中的房间都应计入")
	assert.Len(t, rooms, 2)

	// 房间名命中
	rooms, count, err = repo.Search("django")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Django入门", rooms[0].Name)

	// 描述命中
	rooms, _, err = repo.Search("channel")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "并发模式讨论", rooms[0].Name)

	// 空关键词返回全部，计数与列表长度一致
	rooms, count, err = repo.Search("")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, rooms, 3)

	// 未命中
	rooms, count, err = repo.Search("rust")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, rooms)
}

func TestRoomRepository_GetByID_Preloads(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewRoomRepository(db)
	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "golang", "并发模式", "")

	got, err := repo.GetByID(room.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Host)
	require.NotNil(t, got.Topic)
	assert.Equal(t, "alice", got.Host.Username)
	assert.Equal(t, "golang", got.Topic.Name)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestRoomRepository_AddParticipant_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewRoomRepository(db)
	host := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	room := seedRoom(t, db, host, "golang", "并发模式", "")

	// 重复加入不应产生重复行
	require.NoError(t, repo.AddParticipant(room, bob))
	require.NoError(t, repo.AddParticipant(room, bob))

	got, err := repo.GetByID(room.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 1)
	assert.Equal(t, "bob", got.Participants[0].Username)
}

func TestRoomRepository_Delete_Cascade(t *testing.T) {
	db := newTestDB(t)
	rooms := repository.NewRoomRepository(db)
	messages := repository.NewMessageRepository(db)
	host := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	room := seedRoom(t, db, host, "golang", "并发模式", "")

	require.NoError(t, messages.Create(&model.Message{UserID: bob.ID, RoomID: room.ID, Body: "沙发"}))
	require.NoError(t, rooms.AddParticipant(room, bob))

	require.NoError(t, rooms.Delete(room))

	// 房间查不到了
	_, err := rooms.GetByID(room.ID)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)

	// 房间下的留言一并删除
	left, err := messages.ByRoom(room.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	// 参与者关系已清空
	var joinCount int64
	db.Table("room_participant").Where("room_id = ?", room.ID).Count(&joinCount)
	assert.Zero(t, joinCount)
}

// --- MessageRepository ---

func TestMessageRepository_ByRoom_Order(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMessageRepository(db)
	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "golang", "并发模式", "")

	for _, body := range []string{"一楼", "二楼", "三楼"} {
		require.NoError(t, repo.Create(&model.Message{UserID: host.ID, RoomID: room.ID, Body: body}))
	}

	got, err := repo.ByRoom(room.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// 房间内按发表顺序正序排列
	assert.Equal(t, "一楼", got[0].Body)
	assert.Equal(t, "三楼", got[2].Body)
}

func TestMessageRepository_All_Newest_First(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMessageRepository(db)
	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "golang", "并发模式", "")

	for _, body := range []string{"最早", "居中", "最新"} {
		require.NoError(t, repo.Create(&model.Message{UserID: host.ID, RoomID: room.ID, Body: body}))
	}

	got, err := repo.All()
	require.NoError(t, err)
	require.Len(t, got, 3)
	// 动态页倒序排列
	assert.Equal(t, "最新", got[0].Body)
	assert.Equal(t, "最早", got[2].Body)
}

func TestMessageRepository_RecentByUser_Limit(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMessageRepository(db)
	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "golang", "并发模式", "")

	for i := 0; i < 8; i++ {
		require.NoError(t, repo.Create(&model.Message{UserID: host.ID, RoomID: room.ID, Body: fmt.Sprintf("第%d条", i)}))
	}

	got, err := repo.RecentByUser(host.ID, 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "第7条", got[0].Body, "最近的留言应排在最前")
}

func TestMessageRepository_RecentByTopic(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewMessageRepository(db)
	host := seedUser(t, db, "alice")
	goRoom := seedRoom(t, db, host, "golang", "并发模式", "")
	pyRoom := seedRoom(t, db, host, "python", "爬虫", "")

	require.NoError(t, repo.Create(&model.Message{UserID: host.ID, RoomID: goRoom.ID, Body: "go留言"}))
	require.NoError(t, repo.Create(&model.Message{UserID: host.ID, RoomID: pyRoom.ID, Body: "py留言"}))

	// 只返回话题名命中的房间里的留言
	got, err := repo.RecentByTopic("golang", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "go留言", got[0].Body)

	// 空关键词时不过滤
	got, err = repo.RecentByTopic("", 5)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
