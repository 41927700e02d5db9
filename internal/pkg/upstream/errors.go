package upstream

import "errors"

// 适配器层错误分类，编排器据此决定对外文案，不做自动重试
var (
	// ErrChannelNotFound 所有解析变体都无法定位频道
	ErrChannelNotFound = errors.New("上游未找到该频道")
	// ErrUnauthorized 凭证无效或已过期
	ErrUnauthorized = errors.New("上游凭证无效")
	// ErrQuotaExceeded 上游额度用尽，对应用户可见的 out of credits 提示
	ErrQuotaExceeded = errors.New("上游额度已用尽")
	// ErrUpstream 其他非 2xx 响应或网络故障
	ErrUpstream = errors.New("上游服务异常")
)
