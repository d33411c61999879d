package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ai-hire-go/internal/config"
	"ai-hire-go/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// MinIO 简历原件对象存储适配器
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
}

// NewMinIO 创建MinIO客户端，确保存储桶存在并配置生命周期规则
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.ensureBucketExists(ctx, cfg.ResumeBucket, cfg.Location); err != nil {
		return nil, err
	}
	if cfg.ResumeExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, cfg.ResumeBucket, "expire-resumes", cfg.ResumeExpireDays); err != nil {
			// 生命周期规则失败不阻塞启动，仅记录
			logger.Warn().Err(err).Str("bucket", cfg.ResumeBucket).Msg("设置存储桶生命周期规则失败")
		}
	}
	return m, nil
}

// ensureBucketExists 存储桶不存在时创建
func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName, location string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 失败: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
	}
	return nil
}

// setupBucketLifecycle 为存储桶配置对象过期规则
func (m *MinIO) setupBucketLifecycle(ctx context.Context, bucketName, ruleID string, expiryDays int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:     ruleID,
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, bucketName, cfg)
}

// UploadResumeFile 上传简历原件，对象键为 resumes/{applicationID}{ext}
func (m *MinIO) UploadResumeFile(ctx context.Context, applicationID, fileExt string, reader io.Reader, fileSize int64) (string, error) {
	if !strings.HasPrefix(fileExt, ".") {
		fileExt = "." + fileExt
	}
	objectKey := fmt.Sprintf("resumes/%s%s", applicationID, fileExt)

	contentType := "application/octet-stream"
	if strings.EqualFold(fileExt, ".pdf") {
		contentType = "application/pdf"
	}

	_, err := m.client.PutObject(ctx, m.cfg.ResumeBucket, objectKey, reader, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("上传简历到MinIO失败: %w", err)
	}
	return objectKey, nil
}

// GetResumeFile 下载简历原件
func (m *MinIO) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.cfg.ResumeBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s 失败: %w", objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s 内容失败: %w", objectKey, err)
	}
	return data, nil
}
