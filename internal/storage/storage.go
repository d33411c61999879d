package storage

import (
	"context"
	"fmt"
	"strings"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/logger"
)

// Storage 存储管理器，聚合全部存储相关依赖
type Storage struct {
	// 关系型数据库（必需）
	MySQL *MySQL

	// 缓存与去重（可选）
	Redis *Redis

	// 简历原件对象存储（可选，缺失时降级为仅凭文件名评分）
	MinIO *MinIO

	// 评分事件发布（可选）
	RabbitMQ *RabbitMQ
}

// NewStorage 按配置初始化存储管理器。
// MySQL是硬依赖，初始化失败直接报错；其余组件失败时记录警告并降级。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var initErrors []string
	var err error

	storage.MySQL, err = NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("初始化MySQL失败: %w", err)
	}
	logger.Info().Str("database", cfg.MySQL.Database).Msg("MySQL初始化成功")

	if cfg.Redis.Address != "" {
		storage.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败，缓存与MD5去重不可用")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		}
	} else {
		logger.Info().Msg("Redis未配置，跳过初始化")
	}

	if cfg.MinIO.Endpoint != "" {
		storage.MinIO, err = NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败，简历文件将无法持久化")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		}
	} else {
		logger.Info().Msg("MinIO未配置，跳过初始化")
	}

	if cfg.RabbitMQ.URL != "" {
		storage.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败，评分事件发布不可用")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		}
	} else {
		logger.Info().Msg("RabbitMQ未配置，评分事件发布关闭")
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).
			Msg("部分存储组件初始化失败，服务以降级模式启动")
	}
	return storage, nil
}

// Close 收拢全部存储连接
func (s *Storage) Close() {
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
}
