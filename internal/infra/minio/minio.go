package minio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidhub/internal/config"
	"vidhub/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var client *minio.Client

// Init 初始化 MinIO 客户端，确保媒体 Bucket 存在并可公开读
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", cfg.Bucket))
	}

	// 前端直接通过公开地址播放视频、加载封面
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, cfg.Bucket)
	if err := client.SetBucketPolicy(ctx, cfg.Bucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", cfg.Bucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)
	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// Uploader 为客户端直传生成预签名 PUT 地址
type Uploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
}

func NewUploader(c *minio.Client, cfg *config.MinIOConfig) *Uploader {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &Uploader{
		client:    c,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		expiry:    cfg.PresignExpiry(),
	}
}

// PresignPut 返回预签名上传地址与上传完成后的公开访问地址
func (u *Uploader) PresignPut(ctx context.Context, objectName string) (uploadURL, publicURL string, expiry time.Duration, err error) {
	presigned, err := u.client.PresignedPutObject(ctx, u.bucket, objectName, u.expiry)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate presigned url: %w", err)
	}
	return presigned.String(), u.publicURL + "/" + objectName, u.expiry, nil
}
