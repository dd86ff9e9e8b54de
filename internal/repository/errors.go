package repository

import "errors"

// 仓储层统一的未找到错误，供上层用 errors.Is 判断并映射为404
var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrRoomNotFound    = errors.New("房间不存在")
	ErrMessageNotFound = errors.New("留言不存在")
)
