package upstream

import (
	"Brandscope/internal/model"
	"context"
)

// FetchOptions 视频列表拉取选项
type FetchOptions struct {
	// FullFetch 为真时跟随翻页令牌做全量历史拉取，否则只取一页
	FullFetch bool
	// ChannelID 已知的原生频道 ID，可跳过句柄解析或作为查询兜底
	ChannelID string
}

// Adapter 平台适配器统一出口，编排器只面向该接口
type Adapter interface {
	FetchProfile(ctx context.Context, handle string, knownChannelID string) (*model.ChannelProfile, error)
	FetchPosts(ctx context.Context, handle string, opts FetchOptions) ([]model.Post, error)
}
