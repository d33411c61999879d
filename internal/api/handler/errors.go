package handler

import "errors"

// handler 层哨兵错误，router 统一映射到HTTP状态码。
// 存储层的 ErrNotFound / ErrAlreadyExists 直接向上透传。
var (
	// ErrInvalidInput 请求参数不合法（400）
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials 登录凭证错误（401）
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden 当前用户无权访问该资源（403）
	ErrForbidden = errors.New("forbidden")
)
