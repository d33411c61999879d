package storage

import "errors"

// 存储层哨兵错误。评分相关的"至多一次"约束（一人一岗一申请、
// 一申请一次笔试、一申请一场面试）由数据库唯一索引兜底，
// 冲突统一翻译为 ErrAlreadyExists，调用方据此返回 409。
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists 违反唯一约束，重复提交被拒绝，已有数据不受影响
	ErrAlreadyExists = errors.New("record already exists")
)
