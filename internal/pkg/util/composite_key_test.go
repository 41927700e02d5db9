package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "mrbeast", NormalizeHandle("MrBeast"))
	assert.Equal(t, "mrbeast", NormalizeHandle("  @MrBeast  "))
	assert.Equal(t, "", NormalizeHandle("   "))
}

func TestCompositeKey_DefaultsToYoutube(t *testing.T) {
	assert.Equal(t, "mrbeast::youtube", CompositeKey("MrBeast", ""))
	assert.Equal(t, "mrbeast::tiktok", CompositeKey("@MrBeast", "tiktok"))
}

func TestParseCompositeKey_RoundTrip(t *testing.T) {
	handle, platform := ParseCompositeKey("mrbeast::tiktok")
	assert.Equal(t, "mrbeast", handle)
	assert.Equal(t, "tiktok", platform)

	handle, platform = ParseCompositeKey(CompositeKey("some.channel", "instagram"))
	assert.Equal(t, "some.channel", handle)
	assert.Equal(t, "instagram", platform)
}

func TestParseCompositeKey_BareHandle(t *testing.T) {
	// 历史数据没有平台后缀，按 youtube 处理
	handle, platform := ParseCompositeKey("mrbeast")
	assert.Equal(t, "mrbeast", handle)
	assert.Equal(t, "youtube", platform)
}

func TestParseCompositeKey_HandleContainingSeparator(t *testing.T) {
	// 分隔符出现在句柄里时，从最后一个分隔符拆分
	handle, platform := ParseCompositeKey("we::ird::tiktok")
	assert.Equal(t, "we::ird", handle)
	assert.Equal(t, "tiktok", platform)
}
