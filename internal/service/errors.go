package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	TooManyRequests     = 429
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrBrandNotFound        = errors.New("品牌不存在")
	ErrChannelNotFound      = errors.New("频道不存在")
	ErrChannelExist         = errors.New("频道已添加")
	ErrChannelNotLinked     = errors.New("频道未关联任何品牌")
	ErrPlatformInvalid      = errors.New("不支持的平台")
	ErrIdentityNotFound     = errors.New("无法解析该账号句柄")
	ErrUpstreamUnauthorized = errors.New("上游凭证无效或已过期")
	ErrOutOfCredits         = errors.New("上游额度已用尽")
	ErrUpstreamFailed       = errors.New("上游服务异常，请稍后重试")
	ErrInstagramNotLinked   = errors.New("Instagram 账号未授权或 token 缺失")
	ErrOAuthStateInvalid    = errors.New("授权 state 无效")
	ErrCronUnauthorized     = errors.New("定时任务密钥错误")
	ErrSweepInProgress      = errors.New("每日同步已在进行中")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrBrandNotFound:        NotFound,
	ErrChannelNotFound:      NotFound,
	ErrChannelExist:         BadRequest,
	ErrChannelNotLinked:     NotFound,
	ErrPlatformInvalid:      BadRequest,
	ErrIdentityNotFound:     NotFound,
	ErrUpstreamUnauthorized: Unauthorized,
	ErrOutOfCredits:         TooManyRequests,
	ErrUpstreamFailed:       InternalServerError,
	ErrInstagramNotLinked:   NotFound,
	ErrOAuthStateInvalid:    BadRequest,
	ErrCronUnauthorized:     Unauthorized,
	ErrSweepInProgress:      BadRequest,
	UnExpectedError:         InternalServerError,
}
