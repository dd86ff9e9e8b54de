package service

import "errors"

var (
	// ErrPermissionDenied 所有权校验失败（非房主改房间、非作者删留言）
	ErrPermissionDenied = errors.New("无权进行此操作")
	// ErrInvalidCredentials 登录凭证错误（用户不存在或密码不匹配，对外不区分）
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// FieldErrors 表单字段级校验错误，键为字段名
type FieldErrors map[string]string

// HasErrors 是否存在校验错误
func (e FieldErrors) HasErrors() bool { return len(e) > 0 }
