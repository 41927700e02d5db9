package minio

import (
	"Brandscope/internal/api/config"
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/minio/minio-go/v7"
)

// 上游 CDN 的头像链接带签名且会过期，镜像一份供仪表盘长期引用

const avatarSize = 256

var downloadClient = resty.New().SetTimeout(15 * time.Second)

// MirrorAvatar 下载频道头像，缩放后写入存储桶，返回可公开访问的 URL
// 对象名取复合键，重复同步覆盖旧图
func MirrorAvatar(ctx context.Context, compositeKey string, sourceURL string) (string, error) {
	if Client == nil {
		return "", nil
	}
	if sourceURL == "" {
		return "", nil
	}

	resp, err := downloadClient.R().SetContext(ctx).Get(sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to download avatar: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("avatar download returned HTTP %d", resp.StatusCode())
	}

	img, err := imaging.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("failed to decode avatar: %w", err)
	}
	resized := imaging.Fit(img, avatarSize, avatarSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	objectName := "avatars/" + strings.ReplaceAll(compositeKey, "::", "_") + ".jpg"
	_, err = Client.PutObject(ctx, Bucket, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return publicURL(objectName), nil
}

// publicURL 获取对象的公共访问URL
func publicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.Endpoint, Bucket, objectName)
}
