package util

import (
	"Brandscope/internal/pkg/consts"
	"strings"
)

const keySeparator = "::"

// NormalizeHandle 统一账号句柄格式：去首尾空白、转小写、去掉开头的 @
// 归一化是幂等的，两个归一化结果相同的原始串必须命中同一条缓存
func NormalizeHandle(handle string) string {
	h := strings.ToLower(strings.TrimSpace(handle))
	return strings.TrimPrefix(h, "@")
}

// CompositeKey 生成跨平台唯一的复合键 handle::platform
// platform 为空时默认 youtube，兼容单平台时期的历史数据
func CompositeKey(handle string, platform string) string {
	if platform == "" {
		platform = consts.PlatformYoutube
	}
	return NormalizeHandle(handle) + keySeparator + platform
}

// ParseCompositeKey 解析复合键，按最后一个 :: 拆分
// 句柄本身理论上可能包含分隔符，取最后一次出现位置作为约定
func ParseCompositeKey(key string) (handle string, platform string) {
	i := strings.LastIndex(key, keySeparator)
	if i < 0 {
		return key, consts.PlatformYoutube
	}
	return key[:i], key[i+len(keySeparator):]
}
