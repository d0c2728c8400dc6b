package repo

import "errors"

// 业务错误哨兵值，handler 层用 errors.Is 映射成状态码
// 客户端可修复的（游标坏了、内容不存在、limit 非法）和后端瞬时故障要能区分开
var (
	ErrInvalidCursor  = errors.New("invalid cursor")
	ErrInvalidContent = errors.New("invalid content")
	ErrInvalidLimit   = errors.New("invalid limit")
)
