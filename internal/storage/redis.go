package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/constants"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中，包装底层的 redis.Nil 以隔离依赖
var ErrCacheMiss = redis.Nil

// Redis Redis适配器：排行榜/统计缓存与简历原件MD5去重
type Redis struct {
	Client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter 创建Redis适配器并验证连通性
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
	})

	// 注册OpenTelemetry追踪钩子
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("注册Redis追踪钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return &Redis{Client: client, cfg: cfg}, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.Client.Close()
}

// ========== 简历原件MD5去重 ==========

// CheckResumeFileMD5Exists 判断简历文件MD5是否已出现过
func (r *Redis) CheckResumeFileMD5Exists(ctx context.Context, md5Hex string) (bool, error) {
	return r.Client.SIsMember(ctx, constants.ResumeFileMD5SetKey, md5Hex).Result()
}

// AddResumeFileMD5 记录简历文件MD5并刷新整个Set的过期时间
func (r *Redis) AddResumeFileMD5(ctx context.Context, md5Hex string) error {
	pipe := r.Client.Pipeline()
	pipe.SAdd(ctx, constants.ResumeFileMD5SetKey, md5Hex)
	pipe.Expire(ctx, constants.ResumeFileMD5SetKey,
		time.Duration(r.cfg.ResumeMD5ExpireDays)*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// ========== 排行榜缓存 ==========

// rankingKey 排行榜缓存键
func rankingKey(jobID string) string {
	return constants.RankingCachePrefix + jobID
}

// GetCachedRankings 读取某岗位的排行榜缓存，未命中返回 ErrCacheMiss
func (r *Redis) GetCachedRankings(ctx context.Context, jobID string, dest interface{}) error {
	data, err := r.Client.Get(ctx, rankingKey(jobID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetCachedRankings 写入某岗位的排行榜缓存
func (r *Redis) SetCachedRankings(ctx context.Context, jobID string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ttl := time.Duration(r.cfg.RankingCacheTTLSeconds) * time.Second
	return r.Client.Set(ctx, rankingKey(jobID), data, ttl).Err()
}

// InvalidateRankings 任一阶段得分变化后使该岗位的排行榜缓存失效
func (r *Redis) InvalidateRankings(ctx context.Context, jobID string) error {
	return r.Client.Del(ctx, rankingKey(jobID)).Err()
}

// ========== 统计缓存 ==========

// GetCachedStats 读取管理后台统计缓存
func (r *Redis) GetCachedStats(ctx context.Context, dest interface{}) error {
	data, err := r.Client.Get(ctx, constants.StatsCacheKey).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetCachedStats 写入管理后台统计缓存
func (r *Redis) SetCachedStats(ctx context.Context, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, constants.StatsCacheKey, data, constants.StatsCacheDuration).Err()
}
