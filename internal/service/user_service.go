package service

import (
	"strings"

	"forum-system/internal/model"
	"forum-system/internal/repository"
)

// UserService 用户资料服务
type UserService struct {
	users    *repository.UserRepository
	rooms    *repository.RoomRepository
	messages *repository.MessageRepository
	topics   *repository.TopicRepository
}

// NewUserService 创建UserService实例
func NewUserService(users *repository.UserRepository, rooms *repository.RoomRepository, messages *repository.MessageRepository, topics *repository.TopicRepository) *UserService {
	return &UserService{users: users, rooms: rooms, messages: messages, topics: topics}
}

// ProfileData 个人主页数据
type ProfileData struct {
	User         *model.User
	Rooms        []*model.Room
	RoomMessages []*model.Message
	Topics       []*model.Topic
}

// Profile 个人主页：公开资料、主持的房间、最近留言、话题列表
func (s *UserService) Profile(userID uint) (*ProfileData, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ByHost(user.ID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.RecentByUser(user.ID, profileMessagesLimit)
	if err != nil {
		return nil, err
	}

	topics, err := s.topics.All()
	if err != nil {
		return nil, err
	}

	return &ProfileData{
		User:         user,
		Rooms:        rooms,
		RoomMessages: messages,
		Topics:       topics,
	}, nil
}

// UpdateProfileInput 资料修改输入
// AvatarPath 为已保存头像文件的相对路径，为空表示不修改头像
type UpdateProfileInput struct {
	Username   string
	Email      string
	Nickname   string
	Bio        string
	AvatarPath string
}

// UpdateProfile 修改当前用户自己的资料
// 没有目标用户参数：只能修改自己
func (s *UserService) UpdateProfile(user *model.User, in UpdateProfileInput) (FieldErrors, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)

	fieldErrs := FieldErrors{}
	if in.Username == "" {
		fieldErrs["username"] = "用户名不能为空"
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		fieldErrs["email"] = "邮箱格式不正确"
	}

	// 改名/改邮箱时检查唯一性
	if in.Username != "" && in.Username != user.Username {
		if taken, err := s.users.ExistsByUsername(in.Username); err != nil {
			return nil, err
		} else if taken {
			fieldErrs["username"] = "该用户名已被占用"
		}
	}
	if in.Email != "" && in.Email != user.Email {
		if taken, err := s.users.ExistsByEmail(in.Email); err != nil {
			return nil, err
		} else if taken {
			fieldErrs["email"] = "该邮箱已被注册"
		}
	}

	if fieldErrs.HasErrors() {
		return fieldErrs, nil
	}

	user.Username = in.Username
	user.Email = in.Email
	user.Nickname = strings.TrimSpace(in.Nickname)
	user.Bio = strings.TrimSpace(in.Bio)
	if in.AvatarPath != "" {
		user.Avatar = in.AvatarPath
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return nil, nil
}
